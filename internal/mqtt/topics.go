package mqtt

import "fmt"

func TopicAffection(prefix, sessionID string) string {
	return fmt.Sprintf("%s/session/%s/affection", prefix, sessionID)
}

func TopicAnalysis(prefix, sessionID string) string {
	return fmt.Sprintf("%s/session/%s/analysis", prefix, sessionID)
}
