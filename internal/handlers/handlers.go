// Package handlers wires the HTTP surface: pages, uploads, auth, and the
// JSON classification endpoint.
package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"greenguide/internal/auth"
	"greenguide/internal/classify"
	"greenguide/internal/education"
	"greenguide/internal/guidance"
	"greenguide/internal/store"
	"greenguide/web"
)

const guidanceURLPrefix = "/static/guidance"

var pages = []string{
	"index.html", "login.html", "register.html", "profile.html",
	"classify.html", "classification_results.html", "waste_guidance.html",
	"education.html", "404.html",
}

type Handler struct {
	log        *zap.Logger
	templates  map[string]*template.Template
	catalog    *guidance.Catalog
	classifier *classify.Classifier
	users      store.UserStore
	sessions   *auth.Sessions
	education  education.Content
	maxUpload  int64
}

func NewHandler(log *zap.Logger, catalog *guidance.Catalog, classifier *classify.Classifier,
	users store.UserStore, sessions *auth.Sessions, maxUpload int64) (*Handler, error) {

	funcs := template.FuncMap{
		"percent": func(f float64) float64 { return f * 100 },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("base.html").Funcs(funcs).
			ParseFS(web.Templates, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Handler{
		log:        log,
		templates:  templates,
		catalog:    catalog,
		classifier: classifier,
		users:      users,
		sessions:   sessions,
		education:  education.Default(),
		maxUpload:  maxUpload,
	}, nil
}

// Register attaches every route to the mux. Static guidance images are
// served by the caller, which knows the directory.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/health", cors(h.Health))
	mux.HandleFunc("/classify", h.Classify)
	mux.HandleFunc("/api/classify", cors(h.ClassifyAPI))
	mux.HandleFunc("/guidance/", h.Guidance)
	mux.HandleFunc("/education", h.Education)
	mux.HandleFunc("/register", h.RegisterUser)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/logout", h.Logout)
	mux.HandleFunc("/profile", h.Profile)
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// pageData is what every template executes against.
type pageData struct {
	Error   string
	Message string
	Data    any
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates[page].Execute(w, data); err != nil {
		h.log.Error("template execution failed", zap.String("page", page), zap.Error(err))
	}
}

func (h *Handler) notFound(w http.ResponseWriter) {
	h.render(w, http.StatusNotFound, "404.html", pageData{})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.notFound(w)
		return
	}
	h.render(w, http.StatusOK, "index.html", pageData{})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	state := "loaded"
	if !h.classifier.Ready() {
		state = "unavailable"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "model": state})
}

// decodeUpload pulls the image out of a classification request: either a
// multipart "file" part or a base64 data URL in the "image" form field.
func (h *Handler) decodeUpload(r *http.Request) (image.Image, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUpload)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			h.log.Debug("received upload",
				zap.String("filename", header.Filename), zap.Int64("size", header.Size))
			img, _, err := image.Decode(file)
			if err != nil {
				return nil, fmt.Errorf("decode image: %w", err)
			}
			return img, nil
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	if data := r.FormValue("image"); data != "" {
		// Browser camera captures arrive as "data:image/png;base64,...".
		if idx := strings.IndexByte(data, ','); idx >= 0 {
			data = data[idx+1:]
		}
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("decode base64 image: %w", err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}

	return nil, classify.ErrInvalidInput
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "classify.html", pageData{})
		return
	}

	img, err := h.decodeUpload(r)
	if err != nil {
		h.render(w, http.StatusBadRequest, "classify.html",
			pageData{Error: uploadErrorMessage(err)})
		return
	}

	result, err := h.classifier.Classify(img)
	if errors.Is(err, classify.ErrModelUnavailable) {
		h.render(w, http.StatusServiceUnavailable, "classify.html",
			pageData{Error: "Classification is temporarily unavailable."})
		return
	}
	if err != nil {
		h.log.Error("classification failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "classify.html",
			pageData{Error: "Classification failed. Please try again."})
		return
	}

	h.render(w, http.StatusOK, "classification_results.html",
		pageData{Data: struct{ Result *classify.Result }{result}})
}

// ClassifyAPI is the JSON twin of Classify for programmatic clients.
func (h *Handler) ClassifyAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img, err := h.decodeUpload(r)
	if err != nil {
		http.Error(w, uploadErrorMessage(err), http.StatusBadRequest)
		return
	}

	result, err := h.classifier.Classify(img)
	if errors.Is(err, classify.ErrModelUnavailable) {
		http.Error(w, "Model not loaded", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.log.Error("classification failed", zap.Error(err))
		http.Error(w, "Classification failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func uploadErrorMessage(err error) string {
	if errors.Is(err, classify.ErrInvalidInput) {
		return "No image provided. Upload a file or capture a photo."
	}
	return "Invalid image. Supported formats: JPEG, PNG."
}

type stepView struct {
	Number int
	Text   string
	Image  string
}

func (h *Handler) Guidance(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/guidance/")
	cat, ok := h.catalog.Get(name)
	if !ok {
		h.notFound(w)
		return
	}

	assets := guidance.Paths(cat, guidanceURLPrefix)
	steps := make([]stepView, len(cat.Steps))
	for i, text := range cat.Steps {
		steps[i] = stepView{Number: i + 1, Text: text, Image: assets.Steps[i]}
	}

	h.render(w, http.StatusOK, "waste_guidance.html", pageData{Data: struct {
		Category guidance.Category
		Assets   guidance.AssetPaths
		Steps    []stepView
	}{cat, assets, steps}})
}

type categoryLink struct {
	Name string
	Icon string
	Link string
}

func (h *Handler) Education(w http.ResponseWriter, r *http.Request) {
	links := make([]categoryLink, 0, h.catalog.Len())
	for _, name := range h.catalog.Names() {
		cat, _ := h.catalog.Get(name)
		links = append(links, categoryLink{Name: cat.Name, Icon: cat.Icon, Link: guidance.URL(cat.Name)})
	}

	h.render(w, http.StatusOK, "education.html", pageData{Data: struct {
		Categories []categoryLink
		Content    education.Content
	}{links, h.education}})
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "register.html", pageData{})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !auth.ValidEmail(email) {
		h.render(w, http.StatusBadRequest, "register.html",
			pageData{Error: "Please enter a valid email address."})
		return
	}
	if password == "" {
		h.render(w, http.StatusBadRequest, "register.html",
			pageData{Error: "Password must not be empty."})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.log.Error("password hashing failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "register.html",
			pageData{Error: "Registration failed. Please try again."})
		return
	}

	err = h.users.Create(r.Context(), email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		h.render(w, http.StatusConflict, "register.html",
			pageData{Error: "Email already exists."})
		return
	}
	if err != nil {
		h.log.Error("user creation failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "register.html",
			pageData{Error: "Registration failed. Please try again."})
		return
	}

	h.render(w, http.StatusOK, "login.html",
		pageData{Message: "Registration successful! Please log in."})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "login.html", pageData{})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !auth.ValidEmail(email) {
		h.render(w, http.StatusBadRequest, "login.html",
			pageData{Error: "Please enter a valid email address."})
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.log.Error("user lookup failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "login.html",
			pageData{Error: "Login failed. Please try again."})
		return
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		h.render(w, http.StatusUnauthorized, "login.html",
			pageData{Error: "Invalid email or password."})
		return
	}

	token, err := h.sessions.Issue(email)
	if err != nil {
		h.log.Error("session issue failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "login.html",
			pageData{Error: "Login failed. Please try again."})
		return
	}

	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentUser returns the session's email, or "" when not logged in.
func (h *Handler) currentUser(r *http.Request) string {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return ""
	}
	email, err := h.sessions.Verify(cookie.Value)
	if err != nil {
		return ""
	}
	return email
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	email := h.currentUser(r)
	if email == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		h.sessions.ClearCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.log.Error("user lookup failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "404.html", pageData{})
		return
	}

	h.render(w, http.StatusOK, "profile.html", pageData{Data: user})
}
