package cli

// Export for testing
var (
	CmdMigrate    = cmdMigrate
	TagsIndexNote = tagsIndexNote
)
