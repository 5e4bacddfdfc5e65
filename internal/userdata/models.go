package userdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profile is a read-only snapshot of a user's registration data. Any
// field may be absent; responders must tolerate a nil profile entirely.
type Profile struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	UserID           string         `db:"user_id"`
	Name             sql.NullString `db:"name"`
	DOB              sql.NullString `db:"dob"`
	Height           sql.NullString `db:"height"`
	Weight           sql.NullString `db:"weight"`
	Smoking          sql.NullString `db:"smoking"`
	Alcohol          sql.NullString `db:"alcohol"`
	Disease          sql.NullString `db:"disease"`
	Medication       sql.NullString `db:"medication"`
	IrregularPeriods sql.NullString `db:"irregular_periods"`
}

// Age derives the user's age in whole years from the stored date of
// birth (YYYY-MM-DD). Returns -1 when the DOB is absent or unparseable.
func (p *Profile) Age(now time.Time) int {
	if p == nil || !p.DOB.Valid {
		return -1
	}
	dob, err := time.Parse("2006-01-02", p.DOB.String)
	if err != nil {
		return -1
	}
	age := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		age--
	}
	if age < 0 {
		return -1
	}
	return age
}

// Render formats the profile as labeled lines for prompt inclusion.
func (p *Profile) Render(now time.Time) string {
	if p == nil {
		return "No user profile available."
	}

	var b strings.Builder
	writeLine := func(label string, v sql.NullString) {
		if v.Valid && v.String != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, v.String)
		}
	}
	writeLine("Name", p.Name)
	if age := p.Age(now); age >= 0 {
		fmt.Fprintf(&b, "- Age: %d\n", age)
	}
	writeLine("Height", p.Height)
	writeLine("Weight", p.Weight)
	writeLine("Smoking", p.Smoking)
	writeLine("Alcohol", p.Alcohol)
	writeLine("Disease", p.Disease)
	writeLine("Medication", p.Medication)
	writeLine("Irregular Periods", p.IrregularPeriods)

	out := strings.TrimSuffix(b.String(), "\n")
	if out == "" {
		return "No user profile available."
	}
	return out
}

// symptomColumns mirrors the tracked symptom categories in the
// symptom_logs table. Each column holds a JSON array of ISO dates on
// which the symptom was logged.
var symptomColumns = []string{"Hot Flash", "Bloating", "Cramps", "Anxiety", "Back Pain", "Fatigue"}

// Logs is a read-only snapshot of a user's structured symptom/mood data,
// or a synthesized view wrapping free-text symptoms from the WhatsApp
// path (FreeText set, database fields empty).
type Logs struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	UserID   string         `db:"user_id"`
	HotFlash sql.NullString `db:"hot_flash"`
	Bloating sql.NullString `db:"bloating"`
	Cramps   sql.NullString `db:"cramps"`
	Anxiety  sql.NullString `db:"anxiety"`
	BackPain sql.NullString `db:"back_pain"`
	Fatigue  sql.NullString `db:"fatigue"`
	Mood     sql.NullString `db:"mood"`

	FreeText string `db:"-"`
}

// LogsFromSymptoms synthesizes a log view from free-text symptom input,
// for the messaging channel where no structured logs exist.
func LogsFromSymptoms(symptoms string) *Logs {
	return &Logs{FreeText: symptoms}
}

// Summary renders the logs for prompt inclusion. Synthesized logs expose
// the free text under the fixed keys the responders expect; structured
// logs are summarized per symptom category.
func (l *Logs) Summary() string {
	if l == nil {
		return "No recent logs found for this user."
	}

	if l.FreeText != "" {
		return fmt.Sprintf("current_symptoms: %s\nsymptom_description: %s\nuser_concerns: %s",
			l.FreeText, l.FreeText, l.FreeText)
	}

	columns := []sql.NullString{l.HotFlash, l.Bloating, l.Cramps, l.Anxiety, l.BackPain, l.Fatigue}

	var points []string
	for i, col := range columns {
		if !col.Valid || col.String == "" {
			continue
		}
		var dates []string
		if err := json.Unmarshal([]byte(col.String), &dates); err != nil || len(dates) == 0 {
			continue
		}
		points = append(points, fmt.Sprintf("- Logged '%s' %d times recently.", symptomColumns[i], len(dates)))
	}

	if l.Mood.Valid && l.Mood.String != "" {
		var moods map[string]json.RawMessage
		if err := json.Unmarshal([]byte(l.Mood.String), &moods); err == nil && len(moods) > 0 {
			names := make([]string, 0, len(moods))
			for name := range moods {
				names = append(names, name)
			}
			sort.Strings(names)
			points = append(points, fmt.Sprintf("- Logged moods including: %s.", strings.Join(names, ", ")))
		}
	}

	if len(points) == 0 {
		return "No specific symptoms or moods logged recently."
	}
	return strings.Join(points, "\n")
}
