package config

// User-facing strings shared by commands and events.
const (
	MsgOnline                   = "%s is online!"
	MsgProcessedNonExistentCmd  = "processed a command that does not exist"
	MsgUnknownEpisode           = "Sorry, I don't know that episode!"
	MsgUnknownChapter           = "Sorry, I don't know that chapter!"
	MsgEpisodeHasNoChapters     = "This episode has no chapters associated with it"
	MsgChapterInfoUnavailable   = "Unable to find info on this chapter"
	MsgEpisodeEquivalentMissing = "Episode equivalent is not available yet"
	MsgNoRelatedEpisodes        = "No episodes related yet"
	MsgNoHelp                   = "No help is available for this command."
	MsgUnknownCommandHelp       = "I don't know a command called `%s`."
	MsgDatasetUnavailable       = "The datasets are not available right now, try again later."
)
