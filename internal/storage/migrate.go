// ABOUTME: Data migration between coach storage backends.
// ABOUTME: Copies every user's state and weekly history from source to destination.

package storage

import (
	"errors"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users     int
	Snapshots int
	Skipped   []string
}

// MigrateData copies all users from src to dst. Users already present in dst
// are skipped and listed in the summary. With dryRun set nothing is written.
func MigrateData(src, dst Repository, dryRun bool) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	users, err := src.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list source users: %w", err)
	}

	for _, user := range users {
		if _, err := dst.GetState(user); err == nil {
			summary.Skipped = append(summary.Skipped, user)
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("check destination user %s: %w", user, err)
		}

		data, err := src.GetAllData(user)
		if err != nil {
			return nil, fmt.Errorf("read user %s: %w", user, err)
		}
		if !dryRun {
			if err := dst.ImportData(data); err != nil {
				return nil, fmt.Errorf("import user %s: %w", user, err)
			}
		}
		summary.Users++
		summary.Snapshots += len(data.Snapshots)
	}

	return summary, nil
}
