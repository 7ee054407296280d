package collector

import (
	"context"

	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const avatarConcurrency = 8

// WithAvatars returns a copy of users with avatar URLs filled in, fetched
// concurrently. A failed avatar lookup leaves that user's URL empty.
func WithAvatars(ctx context.Context, f IdentityFetcher, users []model.Identity) []model.Identity {
	out := make([]model.Identity, len(users))
	copy(out, users)

	var g errgroup.Group
	g.SetLimit(avatarConcurrency)
	for i := range out {
		i := i
		g.Go(func() error {
			avatar, err := f.AvatarURL(ctx, out[i].ID)
			if err != nil {
				log.Warnf("avatar lookup for %s failed: %v", out[i].Username, err)
				return nil
			}
			out[i].AvatarURL = avatar
			return nil
		})
	}
	_ = g.Wait()
	return out
}
