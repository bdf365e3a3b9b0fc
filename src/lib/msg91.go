package lib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// MSG91 has no Go SDK; its WhatsApp API is a single JSON endpoint.
const msg91FlowURL = "https://control.msg91.com/api/v5/flow/"

var msg91HTTPClient = &http.Client{Timeout: 10 * time.Second}

// SendWhatsAppOTP delivers a one-time code through the MSG91 template
// flow. to must already be in E.164 form.
func SendWhatsAppOTP(to string, code string) error {
	authKey := os.Getenv("MSG91_AUTH_KEY")
	templateID := os.Getenv("MSG91_OTP_TEMPLATE_ID")
	if authKey == "" || templateID == "" {
		return fmt.Errorf("msg91 is not configured")
	}
	payload := map[string]any{
		"template_id": templateID,
		"recipients": []map[string]any{
			{
				"mobiles": to,
				"otp":     code,
			},
		},
	}
	body, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, msg91FlowURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", authKey)
	res, err := msg91HTTPClient.Do(req)
	if err != nil {
		log.Printf("[msg91] Error sending message: %s\n", err.Error())
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		resBody, _ := io.ReadAll(res.Body)
		log.Printf("[msg91] Delivery failed with status %d: %s\n", res.StatusCode, string(resBody))
		return fmt.Errorf("msg91 responded with status %d", res.StatusCode)
	}
	log.Printf("[msg91] Sent WhatsApp message to %s\n", to)
	return nil
}
