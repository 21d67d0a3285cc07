package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"horizon/internal/domain/identity"
)

// IdentityReconciler is the identity-store surface the sweep needs.
type IdentityReconciler interface {
	ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*identity.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// ReconcileIdentityJob deletes one orphaned identity record. Orphans are
// identities whose sign-up failed after the identity step, so no user
// document references them. The grace period keeps us from deleting a record
// mid-sign-up.
type ReconcileIdentityJob struct {
	identityID string
	email      string
	store      IdentityReconciler
}

// NewReconcileIdentityJob creates a reconcile job for one identity.
func NewReconcileIdentityJob(identityID, email string, store IdentityReconciler) *ReconcileIdentityJob {
	return &ReconcileIdentityJob{
		identityID: identityID,
		email:      email,
		store:      store,
	}
}

// Execute deletes the orphaned identity.
func (j *ReconcileIdentityJob) Execute(ctx context.Context) error {
	if err := j.store.DeleteIdentity(ctx, j.identityID); err != nil {
		return fmt.Errorf("failed to delete orphaned identity %s: %w", j.identityID, err)
	}

	log.Printf("Reconciler: Removed orphaned identity %s (%s)", j.identityID, j.email)
	return nil
}

// SubjectID returns the identity ID this job operates on.
func (j *ReconcileIdentityJob) SubjectID() string {
	return j.identityID
}

// Description returns a human-readable description of the job.
func (j *ReconcileIdentityJob) Description() string {
	return fmt.Sprintf("Orphaned identity cleanup for %s", j.identityID)
}

// OrphanJobProvider lists identities older than the grace period with no
// user document and turns each into a reconcile job.
func OrphanJobProvider(store IdentityReconciler, gracePeriod time.Duration) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		cutoff := time.Now().Add(-gracePeriod)

		orphans, err := store.ListOrphanedBefore(ctx, cutoff)
		if err != nil {
			return nil, fmt.Errorf("failed to list orphaned identities: %w", err)
		}

		jobs := make([]Job, 0, len(orphans))
		for _, orphan := range orphans {
			jobs = append(jobs, NewReconcileIdentityJob(orphan.ID, orphan.Email, store))
		}
		return jobs, nil
	}
}
