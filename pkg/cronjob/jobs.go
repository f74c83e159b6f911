package cronjob

import (
	"context"

	"github.com/raids-lab/siteadmin/pkg/site"
)

const RefreshSnapshots = "refresh-snapshots"

// RefreshJob re-fetches every console screen so the collection metrics and
// dashboard counts stay current while no operator is looking.
func RefreshJob(spec string, s *site.Site) Job {
	return Job{
		Name: RefreshSnapshots,
		Spec: spec,
		Run: func(ctx context.Context) error {
			return s.Refresh(ctx)
		},
	}
}
