package cron

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/utils"
)

const digestTimeout = 2 * time.Minute

// DigestStore is the part of the entity store the digest reads.
type DigestStore interface {
	CountPendingByTeam(ctx context.Context) (map[int64]int64, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	GetUsersByTeam(ctx context.Context, teamID int64) ([]models.User, error)
}

// Locker keeps a run exclusive across instances.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// PendingDigest mails every approver a count of the pending appointments
// in their team. With no mailer it only logs what it would have sent.
type PendingDigest struct {
	store  DigestStore
	mailer utils.Mailer
	lock   Locker
	log    zerolog.Logger
}

func NewPendingDigest(store DigestStore, mailer utils.Mailer, lock Locker, log zerolog.Logger) *PendingDigest {
	return &PendingDigest{store: store, mailer: mailer, lock: lock, log: log}
}

// StartCronJobs schedules the digest and starts the scheduler. Callers stop
// it with the returned cron's Stop.
func StartCronJobs(schedule string, digest *PendingDigest, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := digest.Run(ctx); err != nil {
			log.Error().Err(err).Msg("pending digest failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling pending digest %q: %w", schedule, err)
	}
	c.Start()
	log.Info().Str("schedule", schedule).Msg("cron scheduler started")
	return c, nil
}

// Run sends one round of digests. A failed mail is logged and the round
// moves on to the next approver.
func (d *PendingDigest) Run(ctx context.Context) error {
	if d.lock != nil {
		ok, err := d.lock.Acquire(ctx)
		if err != nil {
			return err
		}
		if !ok {
			d.log.Debug().Msg("pending digest already running elsewhere")
			return nil
		}
		defer func() {
			if err := d.lock.Release(context.WithoutCancel(ctx)); err != nil {
				d.log.Warn().Err(err).Msg("releasing digest lock")
			}
		}()
	}

	counts, err := d.store.CountPendingByTeam(ctx)
	if err != nil {
		return err
	}

	teamIDs := make([]int64, 0, len(counts))
	for id := range counts {
		teamIDs = append(teamIDs, id)
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	sent := 0
	for _, teamID := range teamIDs {
		n, err := d.notifyTeam(ctx, teamID, counts[teamID])
		if err != nil {
			return err
		}
		sent += n
	}
	d.log.Info().Int("teams", len(teamIDs)).Int("sent", sent).Msg("pending digest done")
	return nil
}

func (d *PendingDigest) notifyTeam(ctx context.Context, teamID, pending int64) (int, error) {
	team, err := d.store.GetTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	if team == nil {
		return 0, nil
	}
	users, err := d.store.GetUsersByTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}

	subject, body := digestMail(team, pending)
	sent := 0
	for _, u := range users {
		if u.Role != models.RoleApprover || u.Email == "" {
			continue
		}
		if d.mailer == nil {
			d.log.Info().Str("to", u.Email).Int64("team_id", teamID).Int64("pending", pending).Msg("smtp disabled, digest not sent")
			continue
		}
		if err := d.mailer.Send(ctx, u.Email, subject, body); err != nil {
			d.log.Error().Err(err).Int64("user_id", u.ID).Msg("sending digest")
			continue
		}
		sent++
	}
	return sent, nil
}

func digestMail(team *models.Team, pending int64) (string, string) {
	subject := fmt.Sprintf("%d appointment(s) awaiting approval in %s", pending, team.Name)
	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>Team <strong>%s</strong> has <strong>%d</strong> appointment(s) waiting for approval.</p>
		<p>Sign in to review and approve them.</p>
	`, team.Name, pending)
	return subject, body
}
