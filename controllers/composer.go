package controllers

import (
	"context"

	"golang.org/x/sync/errgroup"

	models "github.com/phillip/eventmate-go/models"
	stores "github.com/phillip/eventmate-go/stores"
)

// attachParticipants enriches each event with its join records. Lookups
// fan out concurrently, one per event; results are written back by index
// so the response keeps the caller's event order. withJoinedAt is set on
// the single-event detail view only.
func attachParticipants(ctx context.Context, joins stores.JoinStore, events []models.Event, withJoinedAt bool) ([]models.EventWithParticipants, error) {
	enriched := make([]models.EventWithParticipants, len(events))

	g, ctx := errgroup.WithContext(ctx)
	for i, event := range events {
		i, event := i, event
		g.Go(func() error {
			records, err := joins.ForEvent(ctx, event.ID)
			if err != nil {
				return err
			}
			enriched[i] = models.EventWithParticipants{
				Event:             event,
				Participants:      toParticipants(records, withJoinedAt),
				ParticipantsCount: len(records),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

func toParticipants(records []models.JoinRecord, withJoinedAt bool) []models.Participant {
	participants := make([]models.Participant, 0, len(records))
	for _, r := range records {
		p := models.Participant{
			UserEmail:    r.UserEmail,
			UserName:     r.UserName,
			UserPhotoURL: r.UserPhotoURL,
		}
		if withJoinedAt {
			joinedAt := r.JoinedAt
			p.JoinedAt = &joinedAt
		}
		participants = append(participants, p)
	}
	return participants
}
