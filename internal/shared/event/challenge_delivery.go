package event

const ChallengeDeliveryDestination string = "challenge_delivery"
const ChallengeDeliveryDestinationConsumerNotification string = "challenge_delivery_notification"

// ChallengeDeliveryMessage asks the notification module to hand a challenge
// code to the user over the selected channel.
type ChallengeDeliveryMessage struct {
	ChallengeID string `json:"challenge_id"`
	Username    string `json:"username"`
	Channel     string `json:"channel"`
	Code        string `json:"code"`
}
