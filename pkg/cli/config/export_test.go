package config

// NewProvidersForTest creates a Providers config with the Instantly and PhantomBuster fields set
func NewProvidersForTest(instantlyKey, instantlyVersion, instantlyBaseURL, phantomKey, connectionAgentID, messageAgentID string) *Providers {
	return &Providers{
		instantlyAPIKey:          instantlyKey,
		instantlyAPIVersion:      instantlyVersion,
		instantlyBaseURL:         instantlyBaseURL,
		phantomAPIKey:            phantomKey,
		phantomConnectionAgentID: connectionAgentID,
		phantomMessageAgentID:    messageAgentID,
	}
}

// NewNotifyForTest creates a Notify config for testing purposes
func NewNotifyForTest(botToken, channel string) *Notify {
	return &Notify{botToken: botToken, channel: channel}
}

// NewSMTPForTest creates an SMTP config for testing purposes
func NewSMTPForTest(host string, port int, from string) *SMTP {
	return &SMTP{host: host, port: port, from: from}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewSalesfinityProvidersForTest creates a Providers config with only Salesfinity set
func NewSalesfinityProvidersForTest(apiKey, baseURL string, scheduling bool) *Providers {
	return &Providers{
		instantlyAPIVersion:   "v1",
		salesfinityAPIKey:     apiKey,
		salesfinityBaseURL:    baseURL,
		salesfinityScheduling: scheduling,
	}
}
