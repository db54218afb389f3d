package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	notifier         *services.Notifier
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, followRepo repositories.FollowRepository, notifier *services.Notifier) *PostHandler {
	return &PostHandler{
		postRepository:   postRepo,
		followRepository: followRepo,
		notifier:         notifier,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/feed", h.GetFeed)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/comments", h.AddComment)
	g.POST("/posts/:id/share", h.SharePost)
}

type postPage struct {
	Posts       []models.Post `json:"posts"`
	CurrentPage int64         `json:"current_page"`
	TotalPages  int64         `json:"total_pages"`
	Total       int64         `json:"total"`
}

func pageParams(c echo.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}

// GetPosts retrieves published posts, optionally filtered by author or tag
func (h *PostHandler) GetPosts(c echo.Context) error {
	page, limit := pageParams(c)
	posts, total, err := h.postRepository.GetPosts(c.Request().Context(), c.QueryParam("userId"), c.QueryParam("tag"), (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, postPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		Total:       total,
	})
}

// GetFeed retrieves posts from the users the caller follows (and themself)
func (h *PostHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorIDs := make([]string, 0, len(followingIDs)+1)
	for _, id := range followingIDs {
		authorIDs = append(authorIDs, userIDString(id))
	}
	authorIDs = append(authorIDs, userIDString(currentUserID))

	page, limit := pageParams(c)
	posts, total, err := h.postRepository.GetFeed(c.Request().Context(), authorIDs, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, postPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		Total:       total,
	})
}

// GetPost retrieves a single post and bumps its view counter
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	// View counting is best-effort
	if err := h.postRepository.IncrementViews(c.Request().Context(), postID); err == nil {
		post.Views++
	}

	return c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID:    userIDString(currentUserID),
		Content:     req.Content,
		Title:       req.Title,
		Type:        req.Type,
		Images:      req.Images,
		Tags:        req.Tags,
		IsPublished: true,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost updates a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := bson.M{}
	if req.Content != "" {
		update["content"] = req.Content
	}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Tags != nil {
		update["tags"] = req.Tags
	}
	if req.IsPublished != nil {
		update["is_published"] = *req.IsPublished
	}
	if len(update) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}

	postID := c.Param("id")
	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, userIDString(currentUserID), update); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id"), userIDString(currentUserID)); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// ToggleLike likes the post if not yet liked, otherwise removes the like
func (h *PostHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	userID := userIDString(currentUserID)
	liked := !post.HasLike(userID)
	if liked {
		err = h.postRepository.AddLike(c.Request().Context(), postID, userID)
	} else {
		err = h.postRepository.RemoveLike(c.Request().Context(), postID, userID)
	}
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	likeCount := int64(len(post.Likes))
	if liked {
		likeCount++
		h.notifier.Notify(c.Request().Context(), &models.Notification{
			Recipient: post.AuthorID,
			Sender:    userID,
			Type:      models.NotificationLike,
			Ref:       &models.NotificationRef{Kind: "post", ID: postID},
			Message:   "liked your post",
		})
	} else {
		likeCount--
	}

	return c.JSON(http.StatusOK, echo.Map{"likes": likeCount, "is_liked": liked})
}

// AddComment appends a comment to the post
func (h *PostHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	comment := models.PostComment{
		ID:        primitive.NewObjectID(),
		UserID:    userIDString(currentUserID),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.postRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	h.notifier.Notify(c.Request().Context(), &models.Notification{
		Recipient: post.AuthorID,
		Sender:    comment.UserID,
		Type:      models.NotificationComment,
		Ref:       &models.NotificationRef{Kind: "post", ID: postID},
		Message:   "commented on your post",
	})

	return c.JSON(http.StatusCreated, comment)
}

// SharePost records a share of the post
func (h *PostHandler) SharePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	userID := userIDString(currentUserID)
	if err := h.postRepository.AddShare(c.Request().Context(), postID, userID); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	h.notifier.Notify(c.Request().Context(), &models.Notification{
		Recipient: post.AuthorID,
		Sender:    userID,
		Type:      models.NotificationShare,
		Ref:       &models.NotificationRef{Kind: "post", ID: postID},
		Message:   "shared your post",
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Post shared"})
}
