// Package export writes booking snapshots as downloadable files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"seatbook/internal/domain"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

const (
	bookingsSheet = "Bookings"
	weekSheet     = "Week"
)

// FileName is the default download name, e.g. bookings_2026-03-09.json.
func FileName(now time.Time, format string) string {
	return fmt.Sprintf("bookings_%s.%s", now.Format("2006-01-02"), format)
}

type jsonBooking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Weekday   string    `json:"weekday"`
	TimeSlot  string    `json:"timeSlot"`
	CreatedAt time.Time `json:"createdAt"`
	Pending   bool      `json:"pending,omitempty"`
}

func WriteJSON(w io.Writer, bookings []domain.Booking) error {
	out := make([]jsonBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, jsonBooking{
			ID:        b.ID.String(),
			Name:      b.Name,
			Weekday:   string(b.Weekday),
			TimeSlot:  string(b.TimeSlot),
			CreatedAt: b.CreatedAt,
			Pending:   b.Pending,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteXLSX writes a workbook with the booking list and the weekly grid.
func WriteXLSX(w io.Writer, bookings []domain.Booking, grid domain.Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	sw := &sheetWriter{file: f}

	if err := sw.addSheet(bookingsSheet); err != nil {
		return err
	}
	if err := sw.header("Name", "Day", "Time slot", "Booked at", "Status"); err != nil {
		return err
	}
	for _, b := range bookings {
		status := "confirmed"
		if b.Pending {
			status = "pending"
		}
		if err := sw.row(b.Name, b.Weekday.Label(), b.TimeSlot.Label(), b.CreatedAt.Format(time.RFC3339), status); err != nil {
			return err
		}
	}

	if err := sw.addSheet(weekSheet); err != nil {
		return err
	}
	cols := make([]any, 0, len(domain.Weekdays)+1)
	cols = append(cols, "Time slot")
	for _, wd := range domain.Weekdays {
		cols = append(cols, wd.Label())
	}
	if err := sw.header(cols...); err != nil {
		return err
	}
	for _, r := range grid.Rows {
		vals := make([]any, 0, len(r.Cells)+1)
		vals = append(vals, r.TimeSlot.Label())
		for _, cell := range r.Cells {
			vals = append(vals, cellText(cell))
		}
		if err := sw.row(vals...); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func cellText(c domain.GridCell) string {
	if !c.Offered {
		return "-"
	}
	text := fmt.Sprintf("%d/%d", c.Booked, c.Capacity)
	if len(c.Names) > 0 {
		text += " " + strings.Join(c.Names, ", ")
	}
	return text
}

type sheetWriter struct {
	file  *excelize.File
	sheet string
	next  int
}

func (s *sheetWriter) addSheet(name string) error {
	if s.sheet == "" {
		if err := s.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := s.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	s.sheet = name
	s.next = 1
	return nil
}

func (s *sheetWriter) header(cols ...any) error {
	if err := s.row(cols...); err != nil {
		return err
	}

	style, err := s.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, s.next-1)
	end, _ := excelize.CoordinatesToCellName(len(cols), s.next-1)
	return s.file.SetCellStyle(s.sheet, start, end, style)
}

func (s *sheetWriter) row(vals ...any) error {
	for i, v := range vals {
		cell, err := excelize.CoordinatesToCellName(i+1, s.next)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(s.sheet, cell, v); err != nil {
			return err
		}
	}
	s.next++
	return nil
}
