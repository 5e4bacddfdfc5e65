package userdata

import (
	"database/sql"
	"testing"
	"time"
)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestProfileAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    *Profile
		want int
	}{
		{"nil profile", nil, -1},
		{"no dob", &Profile{}, -1},
		{"unparseable dob", &Profile{DOB: ns("June 1975")}, -1},
		{"birthday passed", &Profile{DOB: ns("1975-03-01")}, 50},
		{"birthday upcoming", &Profile{DOB: ns("1975-09-01")}, 49},
		{"future dob", &Profile{DOB: ns("2030-01-01")}, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.p.Age(now); got != tc.want {
				t.Errorf("Age() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestProfileRender(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	if got := (*Profile)(nil).Render(now); got != "No user profile available." {
		t.Errorf("nil profile rendered as %q", got)
	}

	if got := (&Profile{UserID: "u1"}).Render(now); got != "No user profile available." {
		t.Errorf("empty profile rendered as %q", got)
	}

	p := &Profile{
		Name:    ns("Asha"),
		DOB:     ns("1975-03-01"),
		Smoking: ns("no"),
	}
	want := "- Name: Asha\n- Age: 50\n- Smoking: no"
	if got := p.Render(now); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestLogsSummaryFreeText(t *testing.T) {
	t.Parallel()

	l := LogsFromSymptoms("hot flashes and poor sleep")
	want := "current_symptoms: hot flashes and poor sleep\n" +
		"symptom_description: hot flashes and poor sleep\n" +
		"user_concerns: hot flashes and poor sleep"
	if got := l.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestLogsSummaryStructured(t *testing.T) {
	t.Parallel()

	l := &Logs{
		HotFlash: ns(`["2025-06-01","2025-06-03","2025-06-05"]`),
		Fatigue:  ns(`["2025-06-02"]`),
		Cramps:   ns(`[]`),
		Mood:     ns(`{"irritable":["2025-06-01"],"anxious":["2025-06-04"]}`),
	}
	want := "- Logged 'Hot Flash' 3 times recently.\n" +
		"- Logged 'Fatigue' 1 times recently.\n" +
		"- Logged moods including: anxious, irritable."
	if got := l.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestLogsSummaryEmpty(t *testing.T) {
	t.Parallel()

	if got := (*Logs)(nil).Summary(); got != "No recent logs found for this user." {
		t.Errorf("nil logs summarized as %q", got)
	}
	if got := (&Logs{UserID: "u1"}).Summary(); got != "No specific symptoms or moods logged recently." {
		t.Errorf("empty logs summarized as %q", got)
	}
	if got := (&Logs{HotFlash: ns("not json")}).Summary(); got != "No specific symptoms or moods logged recently." {
		t.Errorf("malformed logs summarized as %q", got)
	}
}
