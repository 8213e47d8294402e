package models

// Submission classifications accepted in the dataType form field.
const (
	DataTypeChannelDetails = "channelDetails"
)
