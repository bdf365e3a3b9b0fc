package common

import (
	"log"

	awslib "bucketlistt/src/lib/aws"
	"bucketlistt/src/utils"

	"github.com/tidwall/gjson"
)

// PendingBookingsConsumer releases holds announced on the queue. The
// in-process gocron job handles the normal path; the queue covers
// workers running on other nodes.
func PendingBookingsConsumer() {
	qname := utils.WithSuffix("PendingBookings")
	log.Printf("%s: Listening for messages...", qname)
	c := awslib.NewSQSConsumer(qname, func(body string) {
		if !gjson.Valid(body) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		id := gjson.Get(body, "id").Uint()
		if id == 0 {
			log.Printf("[%s]: message has no booking id\n", qname)
			return
		}
		jobID := gjson.Get(body, "JobID").String()
		log.Printf("[%s]: %d", qname, id)
		go utils.ExpirePendingBooking(uint(id), jobID)
	})
	c.Listen()
}
