package output

// Metrics records operational counters of the event feature.
type Metrics interface {
	EventCreated()
	EventDeleted()
	ReactionHandled(emoji string, added bool)
	ParticipantChanged(change string)
	RemindersScheduled(n int)
	ReminderSent()
	ReminderFailed()
}
