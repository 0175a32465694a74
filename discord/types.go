package discord

import (
	"encoding/json"
	"strconv"
)

type OptionType int

const (
	OptionSubCommand      OptionType = 1
	OptionSubCommandGroup OptionType = 2
	OptionString          OptionType = 3
	OptionInteger         OptionType = 4
	OptionBoolean         OptionType = 5
	OptionUser            OptionType = 6
	OptionChannel         OptionType = 7
	OptionRole            OptionType = 8
	OptionMentionable     OptionType = 9
	OptionNumber          OptionType = 10
)

var optionTypeNames = map[string]OptionType{
	"string":      OptionString,
	"integer":     OptionInteger,
	"boolean":     OptionBoolean,
	"user":        OptionUser,
	"channel":     OptionChannel,
	"role":        OptionRole,
	"mentionable": OptionMentionable,
	"number":      OptionNumber,
}

// ParseOptionType maps a manifest option type name to its API value.
func ParseOptionType(name string) (OptionType, bool) {
	t, ok := optionTypeNames[name]
	return t, ok
}

const ChatInputCommand = 1

// ApplicationCommand is the JSON body of a slash command definition.
type ApplicationCommand struct {
	ID          string                     `json:"id,omitempty"`
	Type        int                        `json:"type,omitempty"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Options     []ApplicationCommandOption `json:"options,omitempty"`
}

type ApplicationCommandOption struct {
	Type         OptionType `json:"type"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Required     bool       `json:"required,omitempty"`
	Autocomplete bool       `json:"autocomplete,omitempty"`
	MinValue     *float64   `json:"min_value,omitempty"`
	MaxValue     *float64   `json:"max_value,omitempty"`
}

// Syntax renders "/name [required] (optional)".
func (c ApplicationCommand) Syntax() string {
	s := "/" + c.Name
	for _, o := range c.Options {
		if o.Required {
			s += " [" + o.Name + "]"
		} else {
			s += " (" + o.Name + ")"
		}
	}
	return s
}

type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
	Bot        bool   `json:"bot,omitempty"`
}

// DisplayName prefers the global display name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

type Member struct {
	User  *User    `json:"user,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type Application struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Message is the payload of a reply or a response edit.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// IntChoice builds a choice whose value is an integer.
func IntChoice(n int) Choice {
	b, _ := json.Marshal(n)
	return Choice{Name: strconv.Itoa(n), Value: b}
}

// StringChoice builds a choice whose value is a string.
func StringChoice(s string) Choice {
	b, _ := json.Marshal(s)
	return Choice{Name: s, Value: b}
}
