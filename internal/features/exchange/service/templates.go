package service

import "fmt"

// Recognized trigger phrases, matched after trimming and case-folding.
const (
	CommandIntro      = "intro"
	CommandMenu       = "menu"
	CommandAssignment = "assignment"
	CommandGifted     = "gifted"
	CommandReset      = "reset"
	CommandUnknown    = "unknown"

	// Admin-only commands; from any other number these fall through to
	// the participant table.
	CommandNoGifts     = "no gifts"
	CommandGifts       = "gifts"
	CommandAssignGifts = "assign gifts"
	CommandRemind      = "remind"
)

const (
	introFormat = "☃ Ahoy %s! Welcome to Secret Snowman!️\n\U0001F381You are buying a present for %s.\U0001F381\nPlease reply \"gifted\" to mark your gift as purchased.\U0001F381\nYou can reply \"menu\" for more options.❄"

	menuText = "⛄ I'm here to help!\n❄Text \"gifted\" to mark your gift as purchased.\n❄Text \"assignment\" to see whom you are assigned.\n❄Text \"reset\" if you accidentally marked your gift as purchased.\n❄Text \"intro\" to see the introductory message again.☃"

	giftedFormat = "☃ \U0001F381 Awesome! You're going to make this the greatest Secret Snowman ever for %s!\nJust text \"reset\" if you accidentally marked your gift as purchased.☃"

	assignmentFormat = "☃ You are buying a present for %s.\U0001F381"

	resetFormat = "☃ Ok! You still need to buy a gift for %s.\U0001F381"

	unknownFormat = "☃ I'm sorry. I didn't understand \"%s\".\nPlease text \"menu\" for help.⛄"

	reminderFormat = "☃ Secret Snowman here!❄ %s, you still need to buy a gift for %s.\U0001F381"

	notParticipatingText = "❄❄❄Sorry, I don't recognize your phone number. Are you sure you're participating in Secret Snowman?☃"

	notAssignedText = "☃ Hold tight! Assignments haven't been made yet. You'll get a text as soon as they are.❄"

	infeasibleText = "☃ Couldn't find a valid assignment for this group. Check the cannot-match constraints and try again.❄"

	// InternalErrorText is the generic reply for failures that must not
	// leak to the transport layer.
	InternalErrorText = "❄Internal Server Error❄"
)

// participantFormats maps each participant-scoped command to its reply
// template.
var participantFormats = map[string]string{
	CommandIntro:      introFormat,
	CommandMenu:       menuText,
	CommandAssignment: assignmentFormat,
	CommandGifted:     giftedFormat,
	CommandReset:      resetFormat,
	CommandUnknown:    unknownFormat,
}

// renderReply substitutes names into the template for key. Only intro
// uses the sender's own name; menu is static; everything else takes the
// recipient's name.
func renderReply(key, senderName, recipientName string) string {
	format := participantFormats[key]
	switch key {
	case CommandIntro:
		return fmt.Sprintf(format, senderName, recipientName)
	case CommandMenu:
		return format
	default:
		return fmt.Sprintf(format, recipientName)
	}
}
