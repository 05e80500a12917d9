package events

var ResumeAnalyzedTopic = "ResumeAnalyzedEvent"

type ResumeAnalyzed struct {
	UserID   string
	Source   string
	ATSScore int
}
