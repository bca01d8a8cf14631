package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
	}
}

// NewWorkflowForTest creates a Workflow config for testing purposes
func NewWorkflowForTest(path string) *Workflow {
	return &Workflow{path: path}
}

// NewSourcesForTest creates a Sources config for testing purposes
func NewSourcesForTest(seed int64, names ...string) *Sources {
	return &Sources{names: names, seed: seed}
}
