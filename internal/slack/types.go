package slack

// ChannelInfo is the subset of conversations.info this system reads.
type ChannelInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextTeamID string `json:"context_team_id"`
}

// HistoryMessage is one entry of conversations.history, newest first in
// the API's default ordering.
type HistoryMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Ts   string `json:"ts"`
}

// PostResult is the server echo of a chat.postMessage call.
type PostResult struct {
	Channel string `json:"channel"`
	Ts      string `json:"ts"`
}

type conversationsInfoResponse struct {
	Ok      bool         `json:"ok"`
	Error   string       `json:"error"`
	Channel *ChannelInfo `json:"channel"`
}

type conversationsHistoryResponse struct {
	Ok       bool             `json:"ok"`
	Error    string           `json:"error"`
	Messages []HistoryMessage `json:"messages"`
}

type postMessageResponse struct {
	Ok      bool   `json:"ok"`
	Error   string `json:"error"`
	Channel string `json:"channel"`
	Ts      string `json:"ts"`
}

type profileSetResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
}
