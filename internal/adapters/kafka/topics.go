package kafka

// Topic definitions for Kafka event streaming
const (
	// TopicSentimentReports carries one finished Report per analysis run
	TopicSentimentReports = "sentiment.reports"
)
