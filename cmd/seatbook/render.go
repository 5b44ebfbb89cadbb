package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"seatbook/internal/domain"
)

func renderBookings(w io.Writer, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		_, err := fmt.Fprintln(w, "No bookings this week.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDAY\tSLOT\tBOOKED AT\tSTATE")
	for _, b := range bookings {
		state := "confirmed"
		if b.Pending {
			state = "pending"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Name, b.Weekday.Label(), b.TimeSlot.Label(),
			b.CreatedAt.Local().Format(time.DateTime), state)
	}
	return tw.Flush()
}

func renderGrid(w io.Writer, grid domain.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"SLOT"}
	for _, wd := range domain.Weekdays {
		header = append(header, strings.ToUpper(wd.Label()))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range grid.Rows {
		cols := []string{row.TimeSlot.Label()}
		for _, c := range row.Cells {
			cols = append(cols, gridCell(c))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, row := range grid.Rows {
		for _, c := range row.Cells {
			if len(c.Names) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s, %s: %s\n", c.Weekday.Label(), row.TimeSlot.Label(), strings.Join(c.Names, ", "))
		}
	}
	return nil
}

func gridCell(c domain.GridCell) string {
	if !c.Offered {
		return "-"
	}
	return fmt.Sprintf("%d/%d %s", c.Booked, c.Capacity, c.Status)
}
