package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/yeqown/go-qrcode"
)

// RenderInvoicePDF writes the invoice for a confirmed booking to the
// temp dir and returns the file path. The embedded QR carries the
// encrypted booking reference so the voucher can be verified on-site.
func RenderInvoicePDF(booking *models.Booking) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")

	rawData := map[string]any{
		"bookingId":   booking.ID,
		"referenceId": booking.ReferenceID,
	}
	rawBytes, _ := json.Marshal(rawData)
	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		return "", err
	}
	encryptedMessage, err := EncryptMessage(key, string(rawBytes))
	if err != nil {
		log.Printf("Error encrypting message: %s\n", err.Error())
		return "", err
	}
	qrc, err := qrcode.New(encryptedMessage)
	if err != nil {
		return "", err
	}
	qrPath := path.Join(wd, tempdir, fmt.Sprintf("%s_qr.jpeg", booking.ReferenceID))
	if err := qrc.Save(qrPath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", qrPath, err.Error())
		return "", err
	}
	defer os.Remove(qrPath)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "bucketlistt")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Booking Invoice %s", booking.ReferenceID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Experience", booking.Experience.Title},
		{"Activity", booking.Activity.Name},
		{"Date", booking.Date.Format(config.DATE_FORMAT)},
		{"Time Slot", fmt.Sprintf("%s - %s", booking.TimeSlot.StartTime, booking.TimeSlot.EndTime)},
		{"Participants", fmt.Sprint(booking.TotalParticipants)},
		{"Status", booking.Status},
		{"Amount", fmt.Sprintf("%s %.2f", booking.Currency, booking.BookingAmount)},
		{"Amount Due", fmt.Sprintf("%s %.2f", booking.Currency, booking.DueAmount)},
	}
	if booking.CouponCode != nil && *booking.CouponCode != "" {
		rows = append(rows, [2]string{"Coupon", *booking.CouponCode})
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Guests")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for i, p := range booking.Participants {
		pdf.Cell(0, 6, fmt.Sprintf("%d. %s", i+1, p.Name))
		pdf.Ln(6)
	}

	pdf.ImageOptions(qrPath, 150, 30, 40, 40, false, gofpdf.ImageOptions{ImageType: "JPEG"}, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated on %s. Present the QR code at the venue.", time.Now().In(config.IST).Format("2006-01-02 15:04 MST")))

	filepath := path.Join(wd, tempdir, fmt.Sprintf("invoice_%s.pdf", booking.ReferenceID))
	if err := pdf.OutputFileAndClose(filepath); err != nil {
		log.Printf("Could not write invoice to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}
