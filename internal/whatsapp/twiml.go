package whatsapp

import (
	"encoding/xml"
	"fmt"
)

// messagingResponse is the TwiML document returned to the messaging
// channel. Each webhook reply carries exactly one message.
type messagingResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

// renderTwiML builds the reply document for a single outbound message.
func renderTwiML(message string) ([]byte, error) {
	doc, err := xml.Marshal(messagingResponse{Messages: []string{message}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TwiML response: %w", err)
	}
	return append([]byte(xml.Header), doc...), nil
}
