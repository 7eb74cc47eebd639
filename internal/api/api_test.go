package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/api"
	"github.com/cooklog/backend/internal/testhelpers"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *testhelpers.MemoryBlobStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	blobs := testhelpers.NewMemoryBlobStore()

	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupAPI(router, db, "test-secret", blobs, nil)

	return router, db, blobs
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	return resp.Token
}

func TestAuthRoundTrip(t *testing.T) {
	router, _, _ := setupRouter(t)

	token := registerUser(t, router, "alice@example.com")
	assert.NotEmpty(t, token)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Duplicate registration conflicts.
	w = doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Imposter",
		"email":    "alice@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := setupRouter(t)

	for _, path := range []string{"/api/v1/recipes", "/api/v1/dishes", "/api/v1/sessions", "/api/v1/dashboard"} {
		w := doJSON(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(router, http.MethodGet, "/api/v1/recipes", "not-a-valid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeCRUDFlow(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"title":        "Oven Bacon",
		"ingredients":  "1 lb bacon",
		"instructions": "Bake at 400F for 18 minutes.",
		"is_favorite":  true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Recipe struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"recipe"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Recipe.ID)

	w = doJSON(router, http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Oven Bacon")

	w = doJSON(router, http.MethodPut, "/api/v1/recipes/"+created.Recipe.ID, token, gin.H{
		"title": "Sheet Pan Bacon",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sheet Pan Bacon")

	w = doJSON(router, http.MethodGet, "/api/v1/recipes?q=sheet", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Total int64 `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.EqualValues(t, 1, listed.Total)

	w = doJSON(router, http.MethodDelete, "/api/v1/recipes/"+created.Recipe.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeValidation(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	// Missing title.
	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Negative prep time.
	w = doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"title": "X", "prep_minutes": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed id routes to 404, not 500.
	w = doJSON(router, http.MethodGet, "/api/v1/recipes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersCannotSeeEachOther(t *testing.T) {
	router, _, _ := setupRouter(t)
	alice := registerUser(t, router, "alice@example.com")
	bob := registerUser(t, router, "bob@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", alice, gin.H{"title": "Alice's Toast"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/recipes", bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Total int64 `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Zero(t, listed.Total)
}

func createDishViaAPI(t *testing.T, router *gin.Engine, token, name string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/dishes", token, gin.H{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create dish returned %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Dish struct {
			ID string `json:"id"`
		} `json:"dish"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode dish response: %v", err)
	}
	return created.Dish.ID
}

func TestDishConflicts(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	dishID := createDishViaAPI(t, router, token, "Tacos")

	w := doJSON(router, http.MethodPost, "/api/v1/dishes", token, gin.H{"name": "Tacos"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// A session pins the dish in place.
	w = doJSON(router, http.MethodPost, "/api/v1/sessions", token, gin.H{"dish_id": dishID})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/dishes/"+dishID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionResultLifecycle(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	dishID := createDishViaAPI(t, router, token, "Spaghetti Night")

	w := doJSON(router, http.MethodPost, "/api/v1/sessions", token, gin.H{
		"dish_id":   dishID,
		"cooked_on": "2026-08-20",
		"meal_type": "dinner",
		"method":    "stovetop",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Session struct {
			ID       string `json:"id"`
			CookedOn string `json:"cooked_on"`
		} `json:"session"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "2026-08-20", created.Session.CookedOn)

	// First fetch lazily creates the default result.
	w = doJSON(router, http.MethodGet, "/api/v1/sessions/"+created.Session.ID+"/result", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var first struct {
		Result struct {
			ID      string `json:"id"`
			Outcome string `json:"outcome"`
		} `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "experiment", first.Result.Outcome)

	// Editing goes through the same path and lands on the same row.
	w = doJSON(router, http.MethodPut, "/api/v1/sessions/"+created.Session.ID+"/result", token, gin.H{
		"outcome":          "nailed_it",
		"taste_rating":     9,
		"would_make_again": true,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Result struct {
			ID      string `json:"id"`
			Outcome string `json:"outcome"`
		} `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, first.Result.ID, updated.Result.ID)
	assert.Equal(t, "nailed_it", updated.Result.Outcome)

	w = doJSON(router, http.MethodGet, "/api/v1/results/"+first.Result.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nailed_it")
}

func TestResultRatingOutOfRange(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	dishID := createDishViaAPI(t, router, token, "Spaghetti Night")
	w := doJSON(router, http.MethodPost, "/api/v1/sessions", token, gin.H{"dish_id": dishID})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodPut, "/api/v1/sessions/"+created.Session.ID+"/result", token, gin.H{
		"taste_rating": 11,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/api/v1/sessions/"+created.Session.ID+"/result", token, gin.H{
		"overall_rating": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttachNoteToRecipe(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"title": "Marinara"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodPost, "/api/v1/target/recipe/"+created.Recipe.ID+"/notes", token, gin.H{
		"title": "Tip",
		"body":  "Use whole peeled tomatoes.",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var note struct {
		Note struct {
			TargetType string `json:"target_type"`
			TargetID   string `json:"target_id"`
		} `json:"note"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, "recipe", note.Note.TargetType)
	assert.Equal(t, created.Recipe.ID, note.Note.TargetID)

	// The aggregate view lists it back.
	w = doJSON(router, http.MethodGet, "/api/v1/target/recipe/"+created.Recipe.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var agg struct {
		Target struct {
			Label string `json:"label"`
		} `json:"target"`
		Notes []struct {
			Body string `json:"body"`
		} `json:"notes"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &agg))
	assert.Equal(t, "Marinara", agg.Target.Label)
	assert.Len(t, agg.Notes, 1)

	// Note body is required.
	w = doJSON(router, http.MethodPost, "/api/v1/target/recipe/"+created.Recipe.ID+"/notes", token, gin.H{"title": "empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttachToUnknownModelKey(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"title": "Marinara"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	for _, key := range []string{"user", "note", "Recipe"} {
		w = doJSON(router, http.MethodPost, "/api/v1/target/"+key+"/"+created.Recipe.ID+"/notes", token, gin.H{
			"body": "should not land",
		})
		assert.Equal(t, http.StatusNotFound, w.Code, key)
	}
}

func TestImageUpload(t *testing.T) {
	router, _, blobs := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	dishID := createDishViaAPI(t, router, token, "Spaghetti Night")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	assert.NoError(t, form.WriteField("caption", "Plated"))
	part, err := form.CreateFormFile("image", "plated.jpg")
	assert.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	assert.NoError(t, err)
	assert.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/target/dish/"+dishID+"/images", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Image struct {
			ImageKey string `json:"image_key"`
			Caption  string `json:"caption"`
		} `json:"image"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Plated", resp.Image.Caption)
	assert.True(t, strings.HasPrefix(resp.Image.ImageKey, "cooklog/images/"))
	assert.True(t, strings.HasSuffix(resp.Image.ImageKey, "/plated.jpg"))
	assert.Contains(t, blobs.Objects, resp.Image.ImageKey)
}

func TestPDFUpload(t *testing.T) {
	router, _, blobs := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"title": "Marinara"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	assert.NoError(t, form.WriteField("kind", "recipe"))
	assert.NoError(t, form.WriteField("title", "Scanned card"))
	part, err := form.CreateFormFile("pdf", "card.pdf")
	assert.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	assert.NoError(t, err)
	assert.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/target/recipe/"+created.Recipe.ID+"/pdfs", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusCreated, w2.Code)

	var resp struct {
		PDF struct {
			FileKey          string `json:"file_key"`
			OriginalFilename string `json:"original_filename"`
		} `json:"pdf"`
	}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.Equal(t, "card.pdf", resp.PDF.OriginalFilename)
	assert.Contains(t, blobs.Objects, resp.PDF.FileKey)
}

func TestDashboardEndpoint(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"title": "Oven Bacon"})
	assert.Equal(t, http.StatusCreated, w.Code)
	dishID := createDishViaAPI(t, router, token, "Bacon Breakfast")
	w = doJSON(router, http.MethodPost, "/api/v1/sessions", token, gin.H{"dish_id": dishID})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var dash struct {
		Counts struct {
			Recipes  int64 `json:"recipes"`
			Dishes   int64 `json:"dishes"`
			Sessions int64 `json:"sessions"`
		} `json:"counts"`
		PopularDishes []struct {
			Name         string `json:"name"`
			SessionCount int64  `json:"session_count"`
		} `json:"popular_dishes"`
		SessionBuckets []struct {
			Key   string `json:"key"`
			Count int64  `json:"count"`
		} `json:"session_buckets"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.EqualValues(t, 1, dash.Counts.Recipes)
	assert.EqualValues(t, 1, dash.Counts.Dishes)
	assert.EqualValues(t, 1, dash.Counts.Sessions)
	assert.Len(t, dash.PopularDishes, 1)
	assert.EqualValues(t, 1, dash.PopularDishes[0].SessionCount)
	assert.Len(t, dash.SessionBuckets, 4)
}

func TestAccountDeletionBlockedWhileOwningRecords(t *testing.T) {
	router, _, _ := setupRouter(t)
	token := registerUser(t, router, "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, gin.H{"title": "Toast"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodDelete, "/api/v1/auth/account", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/recipes/"+created.Recipe.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/auth/account", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
