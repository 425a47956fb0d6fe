package delivery

import (
	"context"
	"time"

	"github.com/amishk599/jobcast/internal/model"
)

// SampleJob returns a fixed job used to verify a delivery integration.
func SampleJob() model.Job {
	return model.Job{
		Title:         "Test Notification: Integration Verified",
		Company:       "jobcast",
		Location:      "Everywhere",
		Description:   "If you can read this, *delivery* works. Formatting: _italic_ and `code`.",
		ApplyLink:     "https://www.linkedin.com/jobs/",
		PostedAt:      time.Now(),
		RelativeLabel: "just now",
		Tags:          "#test",
	}
}

// SendTestMessage delivers SampleJob to dest.
func SendTestMessage(ctx context.Context, d model.Deliverer, dest string) error {
	return d.Deliver(ctx, dest, []model.Job{SampleJob()})
}
