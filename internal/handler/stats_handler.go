package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"court-booking-api/internal/schedule"
	"court-booking-api/internal/stats"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/stats/clients?type=week|month|year (admin)
func (h *Handler) ClientStatsByPeriod(c *gin.Context) {
	out, err := h.clientPeriodStats(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c),
		fmt.Sprintf("viewed client statistics (%s)", c.DefaultQuery("type", stats.PeriodWeek)))
	c.JSON(http.StatusOK, out)
}

// GET /api/stats/financial?type=week|month|year (admin)
func (h *Handler) FinancialStats(c *gin.Context) {
	from, to := stats.Window(c.DefaultQuery("type", stats.PeriodWeek), h.now())

	rows, err := h.store.AttendedRows(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actorName(c),
		fmt.Sprintf("viewed financial statistics (%s)", c.DefaultQuery("type", stats.PeriodWeek)))
	c.JSON(http.StatusOK, stats.Aggregate(rows, h.now()))
}

// writeSheet fills a sheet from a header row plus value rows.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func sendWorkbook(c *gin.Context, f *excelize.File, filename string) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GET /api/stats/clients/export?type=... (admin)
func (h *Handler) ExportClientStats(c *gin.Context) {
	period := c.DefaultQuery("type", stats.PeriodWeek)
	rows, err := h.clientPeriodStats(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.ID, r.Name, r.Email, r.Phone,
			r.BookingsCount, r.AttendanceCount,
			fmt.Sprintf("%.1f%%", r.AttendanceRate*100),
			r.TotalIncome,
		})
	}
	if err := writeSheet(f, "Client Stats",
		[]string{"ID", "Name", "Email", "Phone", "Bookings", "Attended", "Attendance Rate", "Income"},
		data); err != nil {
		h.fail(c, err)
		return
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actorName(c),
		fmt.Sprintf("exported client statistics to Excel (%s)", period))
	sendWorkbook(c, f, fmt.Sprintf("clients_%s_%s.xlsx", period, h.now().In(schedule.Zone).Format("2006-01-02")))
}

// GET /api/stats/financial/export?type=... (admin)
func (h *Handler) ExportFinancialStats(c *gin.Context) {
	period := c.DefaultQuery("type", stats.PeriodWeek)
	from, to := stats.Window(period, h.now())

	rows, err := h.store.AttendedRows(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	elapsed := stats.Elapsed(rows, h.now())
	agg := stats.Aggregate(rows, h.now())

	f := excelize.NewFile()
	defer f.Close()

	detail := make([][]any, 0, len(elapsed))
	counts := map[string]int{}
	courtCounts := map[string]int{}
	hourCounts := map[int]int{}
	for _, r := range elapsed {
		day := r.Date.In(schedule.Zone).Format("2006-01-02")
		detail = append(detail, []any{
			r.ID, day, r.TimeSlot, r.ClientName, r.CourtName, r.Price(), r.Deposit, r.Status,
		})
		counts[day]++
		courtCounts[r.CourtName]++
		if hour, err := schedule.SlotHour(r.TimeSlot); err == nil {
			hourCounts[hour]++
		}
	}
	if err := writeSheet(f, "Bookings",
		[]string{"ID", "Date", "Time", "Client", "Court", "Price", "Deposit", "Status"},
		detail); err != nil {
		h.fail(c, err)
		return
	}

	byDate := make([][]any, 0, len(agg.ByPeriod))
	for _, d := range agg.ByPeriod {
		byDate = append(byDate, []any{d.Date, d.Income, counts[d.Date]})
	}
	if err := writeSheet(f, "By Date", []string{"Date", "Income", "Bookings"}, byDate); err != nil {
		h.fail(c, err)
		return
	}

	byCourt := make([][]any, 0, len(agg.ByCourt))
	for _, ci := range agg.ByCourt {
		byCourt = append(byCourt, []any{ci.CourtName, ci.Income, courtCounts[ci.CourtName]})
	}
	if err := writeSheet(f, "By Court", []string{"Court", "Income", "Bookings"}, byCourt); err != nil {
		h.fail(c, err)
		return
	}

	byHour := make([][]any, 0, len(agg.BySchedule))
	for _, hi := range agg.BySchedule {
		byHour = append(byHour, []any{fmt.Sprintf("%d:00", hi.Hour), hi.Income, hourCounts[hi.Hour]})
	}
	if err := writeSheet(f, "By Hour", []string{"Hour", "Income", "Bookings"}, byHour); err != nil {
		h.fail(c, err)
		return
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		h.fail(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actorName(c),
		fmt.Sprintf("exported financial statistics to Excel (%s)", period))
	sendWorkbook(c, f, fmt.Sprintf("financial_%s_%s.xlsx", period, h.now().In(schedule.Zone).Format("2006-01-02")))
}
