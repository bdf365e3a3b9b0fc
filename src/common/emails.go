package common

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"bucketlistt/src/lib"
	awslib "bucketlistt/src/lib/aws"
	"bucketlistt/src/lib/mailer"
	"bucketlistt/src/models"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/tidwall/gjson"
)

func EmailsToSendConsumer() {
	qname := utils.WithSuffix(os.Getenv("EMAIL_QUEUE"))
	log.Printf("%s: Listening for messages...", qname)
	c := awslib.NewSQSConsumer(qname, func(spayload string) {
		if !gjson.Valid(spayload) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		from := gjson.Get(spayload, "from").String()
		fromName := gjson.Get(spayload, "from-name").String()
		subject := gjson.Get(spayload, "subject").String()
		log.Printf("from [%s] with subject: %s\n", from, subject)

		toArr := gjson.Get(spayload, "to").Array()
		to := make([]string, 0)
		for _, item := range toArr {
			to = append(to, item.String())
		}
		ccArr := gjson.Get(spayload, "cc").Array()
		cc := make([]string, 0)
		for _, item := range ccArr {
			cc = append(cc, item.String())
		}
		bccArr := gjson.Get(spayload, "bcc").Array()
		bcc := make([]string, 0)
		for _, item := range bccArr {
			bcc = append(bcc, item.String())
		}
		replyTo := gjson.Get(spayload, "reply-to").String()
		var body types.JSONB
		if err := json.Unmarshal([]byte(spayload), &body); err != nil {
			log.Printf("error deserializing json: %s\n", err.Error())
			return
		}
		go func() {
			input := &lib.SendMailInput{
				From:     from,
				FromName: fromName,
				To:       to,
				Cc:       cc,
				Bcc:      bcc,
				ReplyTo:  replyTo,
				Subject:  body["subject"].(string),
				Body:     body["body"].(string),
				Html:     body["html"].(bool),
			}
			if err := deliverMail(input); err != nil {
				log.Printf("[MAILER] error sending email: %s\n", err.Error())
				return
			}
			log.Printf("[MAILER]: an email has been sent to %s\n", to)
		}()
	})
	c.Listen()
}

// deliverMail hands the message to SES or SMTP depending on the
// configured provider.
func deliverMail(input *lib.SendMailInput) error {
	if os.Getenv("EMAIL_PROVIDER") == "ses" {
		body := &sestypes.Content{Data: aws.String(input.Body)}
		msgBody := &sestypes.Body{Text: body}
		if input.Html {
			msgBody = &sestypes.Body{Html: body}
		}
		awslib.SESSendMessage(
			aws.String(input.From),
			&sestypes.Destination{
				ToAddresses:  input.To,
				CcAddresses:  input.Cc,
				BccAddresses: input.Bcc,
			},
			&sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(input.Subject)},
				Body:    msgBody,
			},
		)
		return nil
	}
	return lib.SendMail(input)
}

// SendBookingConfirmationEmail enqueues the confirmation message for a
// just-confirmed booking. Delivery happens through the email queue.
func SendBookingConfirmationEmail(booking *models.Booking) {
	if booking.User.Email == nil {
		log.Printf("Booking %d has no email on file, skipping confirmation\n", booking.ID)
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s is confirmed!\n\nExperience: %s\nActivity: %s\nDate: %s\nTime: %s - %s\nGuests: %d\nAmount Paid: %s %.2f\n\nSee you there!\nTeam bucketlistt",
		booking.User.Name,
		booking.ReferenceID,
		booking.Experience.Title,
		booking.Activity.Name,
		booking.Date.Format("2006-01-02"),
		booking.TimeSlot.StartTime,
		booking.TimeSlot.EndTime,
		booking.TotalParticipants,
		booking.Currency,
		booking.BookingAmount,
	)
	input := &lib.SendMailInput{
		From:     os.Getenv("EMAIL_FROM"),
		FromName: "bucketlistt",
		To:       []string{*booking.User.Email},
		Subject:  fmt.Sprintf("Booking confirmed: %s", booking.Experience.Title),
		Body:     body,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[MAILER] error queueing confirmation email: %s\n", err.Error())
	}
}
