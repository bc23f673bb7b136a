package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/kracekumar/postpipe/model"
	"github.com/kracekumar/postpipe/publisher"
	"github.com/kracekumar/postpipe/server/middlewares"
	"github.com/kracekumar/postpipe/utils"
	. "github.com/kracekumar/postpipe/utils/log"
)

// TokenCache checks whether a bearer token is currently valid.
type TokenCache interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// UserStore resolves the owner of an access token.
type UserStore interface {
	FindByToken(ctx context.Context, token string) (*model.User, error)
}

// PostStore durably persists validated drafts.
type PostStore interface {
	Insert(ctx context.Context, draft *model.PostDraft, authorID int64) (*model.Post, error)
}

// Pipeline carries one create-post request from bearer token to durable
// row to best-effort queue fan-out. Every collaborator is injected so
// tests can substitute doubles; nothing here is shared across requests
// except the collaborators themselves.
type Pipeline struct {
	Cache  TokenCache
	Users  UserStore
	Posts  PostStore
	Broker publisher.Publisher

	// Queues is the fan-out set for persisted posts. Defaults to
	// publisher.DefaultQueues.
	Queues []string
}

func NewPipeline(cache TokenCache, users UserStore, posts PostStore, broker publisher.Publisher) *Pipeline {
	return &Pipeline{
		Cache:  cache,
		Users:  users,
		Posts:  posts,
		Broker: broker,
		Queues: publisher.DefaultQueues,
	}
}

// ExtractToken pulls the bearer token out of an Authorization header of
// the form "Token <value>". Everything after the last "Token" marker is
// taken, trimmed of surrounding whitespace.
func ExtractToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, "Token")
	return strings.TrimSpace(parts[len(parts)-1])
}

// CreatePost is the single write endpoint: authenticate the bearer
// token against the cache, resolve the owning user, validate the draft,
// insert the post and fan the persisted record out to the queues.
//
// The fan-out is best-effort: the row is already durable when it runs,
// so a failed publish is logged and counted but never changes the
// response. A persistence failure by contrast aborts the request before
// any publish is attempted.
func (p *Pipeline) CreatePost(c *gin.Context) {
	token := ExtractToken(c.GetHeader("Authorization"))
	if token == "" {
		c.String(http.StatusBadRequest, "Invalid Token")
		return
	}

	ctx := c.Request.Context()
	requestID := middlewares.RequestIDFromContext(c)

	present, err := p.Cache.Contains(ctx, token)
	if err != nil {
		Log.WithField("request_id", requestID).Error("fail to check token cache: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": utils.ErrorCacheLookupFail,
			"msg":  "cannot verify token",
		})
		return
	}
	if !present {
		// The flask sibling of this service answered 401 here; 403 is
		// the canonical status for a known-shaped but unknown token.
		utils.AuthRejections.Inc()
		c.String(http.StatusForbidden, "Forbidden")
		return
	}

	user, err := p.Users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// The cache accepted a token the store doesn't know. This is
			// cache/store drift and fatal for the request; proceeding
			// with a nil user would silently attribute the post.
			utils.DriftDetected.Inc()
			Log.WithField("request_id", requestID).Error("token accepted by cache but unknown to user store")
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": utils.ErrorCacheStoreDrift,
				"msg":  "cannot resolve token owner",
			})
			return
		}
		Log.WithField("request_id", requestID).Error("fail to look up user: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": utils.ErrorUserLookupFail,
			"msg":  "cannot resolve token owner",
		})
		return
	}

	var draft model.PostDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"_payload": []string{"Invalid JSON body."}},
		})
		return
	}
	draft.Normalize()
	if violations := draft.Validate(); violations != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": violations})
		return
	}

	post, err := p.Posts.Insert(ctx, &draft, user.Id)
	if err != nil {
		Log.WithField("request_id", requestID).Error("fail to persist post: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": utils.ErrorPersistFail,
			"msg":  "cannot create post",
		})
		return
	}
	utils.PostsCreated.Inc()

	p.fanOut(ctx, post, requestID)

	c.JSON(http.StatusCreated, post)
}

func (p *Pipeline) fanOut(ctx context.Context, post *model.Post, requestID string) {
	payload, err := json.Marshal(post)
	if err != nil {
		Log.WithField("request_id", requestID).Error("fail to encode post for fan-out: ", err)
		return
	}
	publisher.FanOut(ctx, p.Broker, p.Queues, payload)
}
