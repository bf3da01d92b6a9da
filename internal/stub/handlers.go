package stub

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/stub/store"
)

// Handler serves the chat backend HTTP contract. Error bodies follow the
// upstream convention of {"detail": "..."}.
type Handler struct {
	db     *store.DB
	logger *zap.Logger
}

// NewHandler creates a handler backed by the store.
func NewHandler(db *store.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Register mounts all routes on e. Only login and signup are reachable
// without a bearer token.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/login", h.Login)
	e.POST("/signup", h.Signup)
	e.POST("/signout", h.Signout)

	protected := e.Group("", h.requireAuth)
	protected.GET("/list_chats", h.ListChats)
	protected.GET("/get_chat/:id", h.GetChat)
	protected.POST("/create_chat", h.CreateChat)
	protected.POST("/add_message_to_chat/:id", h.AddMessage)
	protected.PUT("/rename_chat/:id", h.RenameChat)
	protected.DELETE("/delete_chat/:id", h.DeleteChat)
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

// requireAuth resolves the bearer token to an account and stows the email
// in the request context. Absence or an unknown token is a 401.
func (h *Handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return detail(c, http.StatusUnauthorized, "Not authenticated")
		}
		email, err := h.db.EmailForToken(token)
		if err != nil {
			h.logger.Error("token lookup failed", zap.Error(err))
			return detail(c, http.StatusInternalServerError, "Internal error")
		}
		if email == "" {
			return detail(c, http.StatusUnauthorized, "Invalid token")
		}
		c.Set("email", email)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// Login verifies credentials and issues a bearer token.
// POST /login {email, password} -> {session: {access_token}}
func (h *Handler) Login(c echo.Context) error {
	var creds api.Credentials
	if err := c.Bind(&creds); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	hash, err := h.db.PasswordHash(creds.Email)
	if err != nil {
		h.logger.Error("password lookup failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		return detail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token := uuid.New().String()
	if err := h.db.InsertToken(token, creds.Email); err != nil {
		h.logger.Error("token insert failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}

	var resp api.LoginResponse
	resp.Session.AccessToken = token
	return c.JSON(http.StatusOK, resp)
}

// Signup registers a new account.
// POST /signup {email, password} -> 200
func (h *Handler) Signup(c echo.Context) error {
	var creds api.Credentials
	if err := c.Bind(&creds); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return detail(c, http.StatusBadRequest, "Email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	if err := h.db.CreateUser(creds.Email, string(hash)); err != nil {
		return detail(c, http.StatusConflict, "Account already exists")
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Account created"})
}

// Signout revokes the presented token. Succeeds even without one so local
// client teardown never blocks on the server.
// POST /signout -> 200
func (h *Handler) Signout(c echo.Context) error {
	if token := bearerToken(c); token != "" {
		if err := h.db.DeleteToken(token); err != nil {
			h.logger.Error("token delete failed", zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Signed out"})
}

// ListChats returns the caller's conversations as {id, title} pairs.
// GET /list_chats -> [{id, title}]
func (h *Handler) ListChats(c echo.Context) error {
	email := c.Get("email").(string)
	chats, err := h.db.ListChats(email)
	if err != nil {
		h.logger.Error("list chats failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	return c.JSON(http.StatusOK, chats)
}

// GetChat returns one conversation's title and transcript.
// GET /get_chat/{id} -> {title, messages}
func (h *Handler) GetChat(c echo.Context) error {
	email := c.Get("email").(string)
	rec, err := h.db.GetChat(email, c.Param("id"))
	if err != nil {
		h.logger.Error("get chat failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	if rec == nil {
		return detail(c, http.StatusNotFound, "Chat not found")
	}
	return c.JSON(http.StatusOK, api.Transcript{Title: rec.ChatTitle, Messages: rec.Messages})
}

// CreateChat creates a conversation from its first user message and replies.
// POST /create_chat {chat_title, first_message} -> [chat_id, assistant_message]
func (h *Handler) CreateChat(c echo.Context) error {
	email := c.Get("email").(string)
	var req api.NewChat
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	chatID := uuid.New().String()
	userMsg := api.Message{Role: api.RoleUser, Text: req.FirstMessage.Text}
	assistantMsg := api.Message{Role: api.RoleAssistant, Text: generateReply(req.FirstMessage.Text)}

	rec := &store.ChatRecord{
		ChatID:     chatID,
		OwnerEmail: email,
		ChatTitle:  req.ChatTitle,
		Messages:   []api.Message{userMsg, assistantMsg},
	}
	if err := h.db.CreateChat(rec); err != nil {
		h.logger.Error("create chat failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}

	// Heterogeneous sequence, element 0 is the new chat id.
	return c.JSON(http.StatusOK, []any{chatID, assistantMsg})
}

// AddMessage appends a user message and returns the assistant's reply.
// POST /add_message_to_chat/{id} {role, text} -> {role, text}
func (h *Handler) AddMessage(c echo.Context) error {
	email := c.Get("email").(string)
	chatID := c.Param("id")

	var userMsg api.Message
	if err := c.Bind(&userMsg); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	assistantMsg := api.Message{Role: api.RoleAssistant, Text: generateReply(userMsg.Text)}
	err := h.db.AppendMessages(email, chatID, userMsg, assistantMsg)
	if errors.Is(err, sql.ErrNoRows) {
		return detail(c, http.StatusNotFound, "Chat not found")
	}
	if err != nil {
		h.logger.Error("add message failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	return c.JSON(http.StatusOK, assistantMsg)
}

// RenameChat updates a conversation's title.
// PUT /rename_chat/{id} {title} -> 200
func (h *Handler) RenameChat(c echo.Context) error {
	email := c.Get("email").(string)
	var req api.RenameRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	err := h.db.RenameChat(email, c.Param("id"), req.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return detail(c, http.StatusNotFound, "Chat not found")
	}
	if err != nil {
		h.logger.Error("rename chat failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Chat renamed successfully"})
}

// DeleteChat removes a conversation.
// DELETE /delete_chat/{id} -> 200
func (h *Handler) DeleteChat(c echo.Context) error {
	email := c.Get("email").(string)
	err := h.db.DeleteChat(email, c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return detail(c, http.StatusNotFound, "Chat not found")
	}
	if err != nil {
		h.logger.Error("delete chat failed", zap.Error(err))
		return detail(c, http.StatusInternalServerError, "Internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Chat deleted successfully"})
}
