package main

import (
	"log"

	"github.com/slack-go/slack"
)

// PostCoachNote posts the daily recommendation to the configured channel.
func PostCoachNote(api *slack.Client, channelID, note string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(note, false))
	if err != nil {
		return err
	}
	log.Printf("coach note posted channel=%s", channelID)
	return nil
}
