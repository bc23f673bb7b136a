package model

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

/*

Post is a persisted blog post.

Id: generated primary key
Title: unique across all posts, 5-255 chars after trimming
MarkdownBody: required, stored as-is
Tags: ordered list of plain string tags, text[] column
PostBy: author's user id, "belongs-to" relation
CreatedAt: server-assigned at insert time, not exposed in responses

*/

type Post struct {
	Id           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string         `gorm:"size:255;uniqueIndex" json:"title"`
	MarkdownBody string         `gorm:"not null" json:"markdown_body"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	PostBy       int64          `gorm:"column:post_by" json:"post_by"`
	Author       *User          `gorm:"foreignKey:PostBy;references:Id" json:"-"`
	CreatedAt    time.Time      `json:"-"`
}

// PostDraft is the unvalidated request payload for a new post. It only
// lives for the duration of one request and is never persisted as-is.
type PostDraft struct {
	Title        string   `json:"title" validate:"required,min=5,max=255"`
	MarkdownBody string   `json:"markdown_body" validate:"required"`
	Tags         []string `json:"tags"`
}

var validate = validator.New()

func init() {
	// Report violations under the json field name, not the Go one.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Normalize trims surrounding whitespace from the title so that length
// constraints apply to the trimmed value.
func (d *PostDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
}

// Validate applies the draft's field constraints and returns one message
// list per violated field, keyed by field name. A nil map means the
// draft is valid.
func (d *PostDraft) Validate() map[string][]string {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"_payload": {err.Error()}}
	}

	violations := map[string][]string{}
	for _, fe := range verrs {
		violations[fe.Field()] = append(violations[fe.Field()], violationMessage(fe))
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "String value is too short."
	case "max":
		return "String value is too long."
	default:
		return "This field is invalid."
	}
}
