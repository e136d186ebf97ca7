package controller

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	bookingModel "shutterhub_backend/internals/features/booking/model"
	helper "shutterhub_backend/internals/helpers"
	"shutterhub_backend/internals/observability/logger"
)

type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// GET /api/a/export/bookings — streams an XLSX of all bookings.
// Optional ?status= filter matches the listing endpoint.
func (ctl *ExportController) ExportBookings(c *fiber.Ctx) error {
	q := ctl.DB.Model(&bookingModel.Booking{}).
		Preload("Customer").Preload("Photographer").
		Order("booking_created_at ASC")
	if status := c.Query("status"); status != "" {
		q = q.Where("booking_status = ?", status)
	}

	var bookings []bookingModel.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Order ID", "Customer", "Photographer", "Amount", "Currency", "Status", "Payment", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i := range bookings {
		b := &bookings[i]
		customerName, photographerName := "", ""
		if b.Customer != nil {
			customerName = b.Customer.UserName
		}
		if b.Photographer != nil {
			photographerName = b.Photographer.UserName
		}
		values := []interface{}{
			b.BookingOrderID,
			customerName,
			photographerName,
			b.BookingAmount,
			b.BookingCurrency,
			b.BookingStatus,
			b.BookingPaymentStatus,
			b.BookingCreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 32)
	_ = f.SetColWidth(sheetName, "B", "H", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	logger.Log.Info().Int("rows", len(bookings)).Str("file", fileName).Msg("bookings export generated")

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(buf.Bytes())
}
