package common

import (
	"log"

	awslib "bucketlistt/src/lib/aws"
)

func SQSConsumers() {
	dlq := awslib.NewSQSConsumer("DLQ", func(payload string) {
		log.Println("DLQ: message received")
	})
	dlq.Listen()

	go EmailsToSendConsumer()
	go PendingBookingsConsumer()
}
