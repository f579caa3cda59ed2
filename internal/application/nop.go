package application

type nopMetrics struct{}

func (nopMetrics) EventCreated()                {}
func (nopMetrics) EventDeleted()                {}
func (nopMetrics) ReactionHandled(string, bool) {}
func (nopMetrics) ParticipantChanged(string)    {}
func (nopMetrics) RemindersScheduled(int)       {}
func (nopMetrics) ReminderSent()                {}
func (nopMetrics) ReminderFailed()              {}
