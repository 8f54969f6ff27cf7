package analysis

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/edgard/healthbot/internal/database"
)

const promptTask = `## Your Task

Analyze this data and identify:
1. **RHR Correlations**: which checklist factors correlate most with lower/higher resting heart rate? Compare nights where nasal strips, mouth taping, sauna, diaphragm work, etc. were done vs not.
2. **Patterns**: recurring correlations between behaviors and biometrics (e.g., 'on days after X, your HRV tends to be higher')
3. **Anomalies**: unusual readings and what might explain them based on the voice notes and checklist
4. **Trends**: multi-week trends (improving/declining sleep, HRV, resting HR)
5. **Unexpected findings**: anything interesting that wasn't explicitly tracked as a health metric but seems to correlate with biometric changes
6. **Actionable suggestions**: specific, concrete recommendations based on the patterns

Be specific. Reference actual dates and numbers. Don't hedge with generic health advice.`

// BuildPrompt assembles the correlation analysis prompt from every data
// source over the reporting window.
func BuildPrompt(transcripts []database.Transcript, ouraDays []database.OuraDay, checklists []database.ChecklistEntry, daysBack int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a health data analyst. Below is raw data from a personal health tracking system covering the last %d days.\n\n", daysBack)

	writeTranscripts(&b, transcripts)
	writeOuraDays(&b, ouraDays)
	writeChecklists(&b, checklists)

	b.WriteString(promptTask)
	return b.String()
}

func writeTranscripts(b *strings.Builder, transcripts []database.Transcript) {
	b.WriteString("## Voice Note Transcripts\n\n")
	b.WriteString("Daily voice notes about training, nutrition, sleep, recovery practices, and lifestyle observations. Raw transcripts, informal and sometimes incomplete.\n")

	if len(transcripts) == 0 {
		b.WriteString("_No voice notes recorded in this period._\n")
		return
	}

	currentDate := ""
	for _, t := range transcripts {
		if t.Date != currentDate {
			currentDate = t.Date
			fmt.Fprintf(b, "\n### %s\n", currentDate)
		}
		b.WriteString(t.RawText + "\n")
	}
}

func writeOuraDays(b *strings.Builder, days []database.OuraDay) {
	b.WriteString("\n## Oura Ring Biometric Data\n\n")

	if len(days) == 0 {
		b.WriteString("_No Oura data recorded in this period._\n")
		return
	}

	for _, d := range days {
		fmt.Fprintf(b, "### %s\n", d.Date)
		fmt.Fprintf(b, "- Resting HR: %s bpm\n", intOr(d.LowestHeartRate, "N/A"))
		fmt.Fprintf(b, "- Avg HR (sleep): %s bpm\n", intOr(d.AverageHeartRate, "N/A"))
		fmt.Fprintf(b, "- Avg HRV: %s ms\n", intOr(d.AverageHRV, "N/A"))
		fmt.Fprintf(b, "- Sleep: %s (Deep: %s, REM: %s, Light: %s)\n",
			hoursOr(d.TotalSleepS, "N/A"), hoursOr(d.DeepSleepS, "?"),
			hoursOr(d.RemSleepS, "?"), hoursOr(d.LightSleepS, "?"))
		fmt.Fprintf(b, "- Sleep efficiency: %s%%\n", intOr(d.SleepEfficiency, "N/A"))
		fmt.Fprintf(b, "- Breathing rate: %s/min\n", floatOr(d.BreathingRate, "N/A"))
		fmt.Fprintf(b, "- Readiness: %s\n", intOr(d.ReadinessScore, "N/A"))
		fmt.Fprintf(b, "- Activity: %s | Steps: %s\n", intOr(d.ActivityScore, "N/A"), intOr(d.Steps, "N/A"))
		b.WriteString("\n")
	}
}

func writeChecklists(b *strings.Builder, checklists []database.ChecklistEntry) {
	b.WriteString("\n## Daily Checklist (RHR-Influencing Factors)\n\n")

	if len(checklists) == 0 {
		b.WriteString("_No checklist data recorded in this period._\n")
		return
	}

	for _, c := range checklists {
		notes, err := c.OtherNotesMap()
		if err != nil {
			// A corrupt notes blob degrades to no notes for the day.
			notes = map[string]string{}
		}

		medMin := ""
		if c.MeditationMinutes.Valid {
			medMin = fmt.Sprintf(" (%d min)", c.MeditationMinutes.Int64)
		}

		fmt.Fprintf(b, "### %s\n", c.Date)
		fmt.Fprintf(b, "- Electronics off 1h before bed: %s\n", ynNote(c.ElectronicsOff, notes, "electronics_off"))
		fmt.Fprintf(b, "- Nasal rinse: %s\n", ynNote(c.NasalRinse, notes, "nasal_rinse"))
		fmt.Fprintf(b, "- Nasal strips: %s\n", ynNote(c.NasalStrips, notes, "nasal_strips"))
		fmt.Fprintf(b, "- Mouth taping: %s\n", ynNote(c.MouthTaping, notes, "mouth_taping"))
		fmt.Fprintf(b, "- Sauna: %s\n", ynNote(c.Sauna, notes, "sauna"))
		fmt.Fprintf(b, "- Diaphragm work: %s\n", ynNote(c.DiaphragmWork, notes, "diaphragm_work"))
		fmt.Fprintf(b, "- Heavy screen/social media day: %s\n", ynNote(c.HeavyScreenDay, notes, "heavy_screen_day"))
		fmt.Fprintf(b, "- Training: %s\n", stringOr(c.TrainingType, "None"))
		fmt.Fprintf(b, "- Last meal: %s\n", stringOr(c.LastMealTime, "-"))
		fmt.Fprintf(b, "- Last caffeine: %s\n", stringOr(c.CaffeineCutoff, "-"))
		fmt.Fprintf(b, "- Hydration: %s\n", capitalize(stringOr(c.Hydration, "-")))
		fmt.Fprintf(b, "- Supplements: %s\n", stringOr(c.Supplements, "None"))
		fmt.Fprintf(b, "- Meditation/breathwork: %s%s\n", ynNote(c.Meditation, notes, "meditation"), medMin)
		b.WriteString("\n")
	}
}

// ynNote renders a tri-state answer, substituting the free-text note when
// the user answered outside yes/no.
func ynNote(v sql.NullBool, notes map[string]string, key string) string {
	if note, ok := notes[key]; ok {
		return "Other: " + note
	}
	if !v.Valid {
		return "-"
	}
	if v.Bool {
		return "Yes"
	}
	return "No"
}

func intOr(v sql.NullInt64, fallback string) string {
	if !v.Valid {
		return fallback
	}
	return fmt.Sprintf("%d", v.Int64)
}

func floatOr(v sql.NullFloat64, fallback string) string {
	if !v.Valid {
		return fallback
	}
	return fmt.Sprintf("%v", v.Float64)
}

func hoursOr(v sql.NullInt64, fallback string) string {
	if !v.Valid {
		return fallback
	}
	return fmt.Sprintf("%.1fh", float64(v.Int64)/3600)
}

func stringOr(v sql.NullString, fallback string) string {
	if !v.Valid || v.String == "" {
		return fallback
	}
	return v.String
}

func capitalize(s string) string {
	if s == "" || s == "-" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
