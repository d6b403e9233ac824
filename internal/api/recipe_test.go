package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrybox/pantrybox-backend/internal/models"
)

func decodeRecipe(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &response))
	require.Contains(t, response, "recipe")
	return response["recipe"].(map[string]interface{})
}

func recipePayload() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Pongal",
		"time_minutes": 60,
		"price":        "3.60",
		"description":  "South Indian breakfast dish",
		"link":         "http://example.com/pongal",
		"tags":         []map[string]string{{"name": "Indian"}, {"name": "Breakfast"}},
		"ingredients":  []map[string]string{{"name": "Rice"}, {"name": "Lentils"}},
	}
}

func responseTagNames(recipe map[string]interface{}) []string {
	var names []string
	for _, raw := range recipe["tags"].([]interface{}) {
		names = append(names, raw.(map[string]interface{})["name"].(string))
	}
	return names
}

func TestCreateRecipe(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code, w.Body.String())

	recipe := decodeRecipe(t, w.Body.Bytes())
	assert.Equal(t, "Pongal", recipe["title"])
	assert.Equal(t, float64(60), recipe["time_minutes"])
	assert.Equal(t, "South Indian breakfast dish", recipe["description"])
	assert.ElementsMatch(t, []string{"Indian", "Breakfast"}, responseTagNames(recipe))

	price := decimal.RequireFromString(recipe["price"].(string))
	assert.True(t, price.Equal(decimal.RequireFromString("3.60")),
		"price %s drifted from 3.60", price)
}

func TestCreateRecipeValidation(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	// Missing required price.
	payload := recipePayload()
	delete(payload, "price")
	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, payload)
	assert.Equal(t, 400, w.Code)

	// Negative time.
	payload = recipePayload()
	payload["time_minutes"] = -5
	w = PerformRequest(t, router, "POST", "/api/v1/recipes", token, payload)
	assert.Equal(t, 400, w.Code)

	// A relation descriptor without a name never reaches the reconciler.
	payload = recipePayload()
	payload["tags"] = []map[string]string{{}}
	w = PerformRequest(t, router, "POST", "/api/v1/recipes", token, payload)
	assert.Equal(t, 400, w.Code)
}

func TestRecipesRequireAuthentication(t *testing.T) {
	router, _ := SetupTestRouter(t)

	w := PerformRequest(t, router, "GET", "/api/v1/recipes", "", nil)
	assert.Equal(t, 401, w.Code)

	w = PerformRequest(t, router, "POST", "/api/v1/recipes", "", recipePayload())
	assert.Equal(t, 401, w.Code)
}

func TestListRecipesOmitsDescription(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	w = PerformRequest(t, router, "GET", "/api/v1/recipes", token, nil)
	require.Equal(t, 200, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	recipes := response["recipes"].([]interface{})
	require.Len(t, recipes, 1)

	summary := recipes[0].(map[string]interface{})
	assert.NotContains(t, summary, "description")
	assert.Contains(t, summary, "title")
	assert.Contains(t, summary, "tags")

	// The detail shape carries the description.
	w = PerformRequest(t, router, "GET", "/api/v1/recipes/"+recipeID, token, nil)
	require.Equal(t, 200, w.Code)
	detail := decodeRecipe(t, w.Body.Bytes())
	assert.Equal(t, "South Indian breakfast dish", detail["description"])
}

func TestListRecipesScopedToOwner(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, aliceToken := CreateTestUserAndToken(t, testDB)
	_, bobToken := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", aliceToken, recipePayload())
	require.Equal(t, 201, w.Code)

	w = PerformRequest(t, router, "GET", "/api/v1/recipes", bobToken, nil)
	require.Equal(t, 200, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response["recipes"].([]interface{}))
}

func TestGetRecipeCrossOwnerNotFound(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, aliceToken := CreateTestUserAndToken(t, testDB)
	_, bobToken := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", aliceToken, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	w = PerformRequest(t, router, "GET", "/api/v1/recipes/"+recipeID, bobToken, nil)
	assert.Equal(t, 404, w.Code)
}

func TestUpdateOwnerFieldSilentlyIgnored(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	aliceID, aliceToken := CreateTestUserAndToken(t, testDB)
	bobID, _ := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", aliceToken, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	// Attempting to reassign the owner succeeds but changes nothing.
	w = PerformRequest(t, router, "PATCH", "/api/v1/recipes/"+recipeID, aliceToken, map[string]interface{}{
		"user":    bobID.String(),
		"user_id": bobID.String(),
		"title":   "Renamed",
	})
	require.Equal(t, 200, w.Code)

	var stored models.Recipe
	require.NoError(t, testDB.DB.First(&stored, "id = ?", recipeID).Error)
	assert.Equal(t, aliceID, stored.UserID)
	assert.Equal(t, "Renamed", stored.Title)
}

func TestUpdateTagsFullReplace(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	// Omitting the key leaves the set untouched.
	w = PerformRequest(t, router, "PATCH", "/api/v1/recipes/"+recipeID, token, map[string]interface{}{
		"title": "Still Pongal",
	})
	require.Equal(t, 200, w.Code)
	recipe := decodeRecipe(t, w.Body.Bytes())
	assert.ElementsMatch(t, []string{"Indian", "Breakfast"}, responseTagNames(recipe))

	// An explicit empty list detaches everything.
	w = PerformRequest(t, router, "PATCH", "/api/v1/recipes/"+recipeID, token, map[string]interface{}{
		"tags": []map[string]string{},
	})
	require.Equal(t, 200, w.Code)
	recipe = decodeRecipe(t, w.Body.Bytes())
	assert.Empty(t, recipe["tags"].([]interface{}))
}

func TestReplaceRecipeRequiresAllFields(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	// PUT with only a title is rejected.
	w = PerformRequest(t, router, "PUT", "/api/v1/recipes/"+recipeID, token, map[string]interface{}{
		"title": "Incomplete",
	})
	assert.Equal(t, 400, w.Code)

	// A complete payload passes.
	w = PerformRequest(t, router, "PUT", "/api/v1/recipes/"+recipeID, token, map[string]interface{}{
		"title":        "Complete",
		"time_minutes": 15,
		"price":        "9.99",
	})
	require.Equal(t, 200, w.Code)
	recipe := decodeRecipe(t, w.Body.Bytes())
	assert.Equal(t, "Complete", recipe["title"])
	// Relations were not named in the payload, so they are untouched.
	assert.ElementsMatch(t, []string{"Indian", "Breakfast"}, responseTagNames(recipe))
}

func TestDeleteRecipe(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	w = PerformRequest(t, router, "DELETE", "/api/v1/recipes/"+recipeID, token, nil)
	assert.Equal(t, 204, w.Code)

	w = PerformRequest(t, router, "GET", "/api/v1/recipes/"+recipeID, token, nil)
	assert.Equal(t, 404, w.Code)
}

func TestDeleteRecipeByNonOwner(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, aliceToken := CreateTestUserAndToken(t, testDB)
	_, bobToken := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", aliceToken, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	w = PerformRequest(t, router, "DELETE", "/api/v1/recipes/"+recipeID, bobToken, nil)
	assert.Equal(t, 404, w.Code)

	// The recipe is untouched for its owner.
	w = PerformRequest(t, router, "GET", "/api/v1/recipes/"+recipeID, aliceToken, nil)
	assert.Equal(t, 200, w.Code)
}

func uploadImage(t *testing.T, router *gin.Engine, token, recipeID string, content []byte, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/recipes/"+recipeID+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	w = uploadImage(t, router, token, recipeID, pngHeader, "dish.png")
	require.Equal(t, 200, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	imageURL := response["image_url"].(string)
	assert.NotEmpty(t, imageURL)
	assert.Equal(t, 1, testDB.Storage.Len())

	var stored models.Recipe
	require.NoError(t, testDB.DB.First(&stored, "id = ?", recipeID).Error)
	assert.Equal(t, imageURL, stored.ImageURL)

	// A second upload replaces the stored object.
	w = uploadImage(t, router, token, recipeID, pngHeader, "dish2.png")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, 1, testDB.Storage.Len())
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, token := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", token, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	w = uploadImage(t, router, token, recipeID, []byte("just some text"), "notes.txt")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, 0, testDB.Storage.Len())
}

func TestUploadImageCrossOwner(t *testing.T) {
	router, testDB := SetupTestRouter(t)
	_, aliceToken := CreateTestUserAndToken(t, testDB)
	_, bobToken := CreateTestUserAndToken(t, testDB)

	w := PerformRequest(t, router, "POST", "/api/v1/recipes", aliceToken, recipePayload())
	require.Equal(t, 201, w.Code)
	recipeID := decodeRecipe(t, w.Body.Bytes())["id"].(string)

	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	w = uploadImage(t, router, bobToken, recipeID, pngHeader, "dish.png")
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, 0, testDB.Storage.Len())
}
