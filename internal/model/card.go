package model

import "time"

// Card pairs an OpenAI-compatible API endpoint (plus model name and key)
// with the GitHub repository it serves. Cards are owned by exactly one user
// and are only ever read or written through that user's identity — except
// for the internal server-to-server lookup, which is gated by a time token
// instead.
//
// APIKey is a secret the owner deliberately stores with us so the linked
// repository service can fetch it; unlike User.AccessToken it IS part of the
// card's JSON shape, both for the owner and for the internal endpoint.
type Card struct {
	CardID         string    `json:"cardId"         db:"card_id"` // UUID, server-assigned when absent
	UserID         string    `json:"userId"         db:"user_id"` // owning User.UID
	OpenAIEndpoint string    `json:"openaiEndpoint" db:"openai_endpoint"`
	APIModel       string    `json:"apiModel"       db:"api_model"`
	APIKey         string    `json:"apiKey"         db:"api_key"`
	RepoURL        string    `json:"repoUrl"        db:"repo_url"`
	Disabled       bool      `json:"disabled"       db:"disabled"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt"      db:"updated_at"`
}

// CardPatch is a partial card update. Nil fields are "leave unchanged";
// the service merges it onto the stored card and re-validates the result.
type CardPatch struct {
	OpenAIEndpoint *string `json:"openaiEndpoint"`
	APIModel       *string `json:"apiModel"`
	APIKey         *string `json:"apiKey"`
	RepoURL        *string `json:"repoUrl"`
	Disabled       *bool   `json:"disabled"`
}
