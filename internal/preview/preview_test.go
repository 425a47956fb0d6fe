package preview

import (
	"strings"
	"testing"

	"github.com/amishk599/jobcast/internal/delivery"
	"github.com/amishk599/jobcast/internal/mdsplit"
	"github.com/amishk599/jobcast/internal/model"
)

func TestRender_ShowsChunksAndButton(t *testing.T) {
	jobs := []model.Job{
		{
			Title:         "Go Engineer",
			Company:       "Acme",
			Location:      "Berlin",
			RelativeLabel: "3 hours ago",
			Description:   strings.Repeat("line of description\n", 30),
			ApplyLink:     "https://www.linkedin.com/jobs/view/1",
		},
		{
			Title:         "SRE",
			Company:       "Globex",
			Location:      "Remote",
			RelativeLabel: "Unknown",
		},
	}

	out := Render(jobs, 200, 60)

	for _, want := range []string{"1/2  Go Engineer", "2/2  SRE", "chunk 1/", delivery.ApplyButtonText, "https://www.linkedin.com/jobs/view/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, delivery.ApplyButtonText) != 1 {
		t.Errorf("expected exactly one apply button (second job has no link)")
	}

	wantMessages := len(mdsplit.Split(jobs[0].Message(), 200)) + len(mdsplit.Split(jobs[1].Message(), 200))
	if wantMessages < 3 {
		t.Fatalf("fixture should split into several chunks, got %d", wantMessages)
	}
	if !strings.Contains(out, "2 jobs") {
		t.Errorf("summary missing job count")
	}
	if strings.Contains(out, "unbalanced") {
		t.Errorf("splitter output should always be balanced")
	}
}

func TestRender_Empty(t *testing.T) {
	out := Render(nil, mdsplit.MaxMessageLength, 0)
	if !strings.Contains(out, "0 jobs") || !strings.Contains(out, "0 messages") {
		t.Errorf("unexpected output for no jobs: %q", out)
	}
}
