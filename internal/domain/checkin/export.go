package checkin

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF renders a stored check-in as a printable summary.
func (s *Service) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	record, err := s.store.GetCheckIn(ctx, id)
	if err != nil {
		return nil, err
	}
	subjectName := record.TeamMemberID
	members, err := s.store.ListActiveTeamMembers(ctx)
	if err != nil {
		slog.Warn("checkin pdf subject lookup failed", "err", err)
	}
	for _, m := range members {
		if m.ID == record.TeamMemberID {
			subjectName = m.FullName
			break
		}
	}
	return RenderPDF(record, subjectName)
}

func RenderPDF(record CheckIn, subjectName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s check-in", titleCase(string(record.Type))))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(text string) {
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
	}
	line(fmt.Sprintf("Team member: %s", subjectName))
	line(fmt.Sprintf("Review date: %s", record.ReviewDate.Format("2006-01-02")))
	period := ""
	if record.Quarter != nil {
		period = *record.Quarter + " "
	}
	if record.Year != nil {
		period += fmt.Sprintf("%d", *record.Year)
	}
	if period != "" {
		line(fmt.Sprintf("Period: %s", strings.TrimSpace(period)))
	}

	if record.Type != TypeAnnual {
		return output(pdf)
	}

	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, text)
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
	}

	heading("Reflection")
	for _, q := range ReflectionQuestions {
		answer := record.ReflectionQuestions[q.Key]
		pdf.SetFont("Helvetica", "B", 11)
		line(q.Prompt)
		pdf.SetFont("Helvetica", "", 11)
		line("Team member: " + answer.SubjectResponse)
		line("Leader: " + answer.ReviewerResponse)
	}

	heading("Peer feedback")
	for _, entry := range record.PeerFeedback {
		pdf.SetFont("Helvetica", "B", 11)
		line(entry.PeerName)
		pdf.SetFont("Helvetica", "", 11)
		line("Crushing it: " + entry.CrushingIt)
		line("Growth areas: " + entry.GrowthAreas)
		if entry.Other != "" {
			line("Other: " + entry.Other)
		}
	}

	heading("Maturity snapshot")
	for _, entry := range record.MaturitySnapshot {
		line(fmt.Sprintf("%s: %.1f / %d (%s)", entry.CategoryName, entry.AverageRating, entry.MaxRating, entry.LevelName))
		if entry.LeaderComments != "" {
			line("  " + entry.LeaderComments)
		}
	}

	heading("Growth areas")
	for _, entry := range record.GrowthAreas {
		if entry.SkillID == "" {
			continue
		}
		ratings := map[string]int{"Q1": entry.Q1, "Q2": entry.Q2, "Q3": entry.Q3, "Q4": entry.Q4}
		parts := make([]string, 0, len(quarterKeys))
		for _, q := range quarterKeys {
			parts = append(parts, fmt.Sprintf("%s %d", q, ratings[q]))
		}
		line(fmt.Sprintf("%s: %s", entry.SkillName, strings.Join(parts, ", ")))
		if entry.LeaderComments != "" {
			line("  " + entry.LeaderComments)
		}
	}
	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
