package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	sc "github.com/dmitrijs2005/nutriledger/internal/server/config"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/textgen"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const recipeSystemPrompt = `You are a nutrition assistant. Answer with a single JSON object and nothing else:
{"name": string, "ingredients": [string], "instructions": [string], "calories": number,
 "protein": number, "carbs": number, "fat": number, "tags": [string]}`

// generatedRecipe is the JSON shape requested from the text generator.
type generatedRecipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Tags         []string `json:"tags"`
}

// RecipeService manages generated and custom recipes and the images
// attached to custom recipes.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	clock       timex.Clock
	generator   textgen.Generator
}

// NewRecipeService wires the service; gen may be nil, which disables
// GenerateRecipe.
func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, gen textgen.Generator) *RecipeService {
	return &RecipeService{db: db, repomanager: m, config: cfg, clock: timex.SystemClock{}, generator: gen}
}

func validateContent(c *models.RecipeContent) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return common.Validationf("recipe name must not be empty")
	}
	for _, v := range []float64{c.Calories, c.Protein, c.Carbs, c.Fat} {
		if v < 0 {
			return common.Validationf("nutrition values must be non-negative")
		}
	}
	return nil
}

func (s *RecipeService) SaveGeneratedRecipe(ctx context.Context, userID string, content models.RecipeContent) (*models.Recipe, error) {
	if err := validateContent(&content); err != nil {
		return nil, err
	}
	r, err := s.repomanager.Recipes(s.db).Create(ctx, &models.Recipe{
		UserID:        userID,
		RecipeContent: content,
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("error saving recipe: %w", err)
	}
	return r, nil
}

// GenerateRecipe asks the text generator for a recipe matching request and
// the user's diet profile, and saves the result.
func (s *RecipeService) GenerateRecipe(ctx context.Context, userID, request string) (*models.Recipe, error) {
	if s.generator == nil {
		return nil, common.ErrFeatureDisabled
	}
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, common.Validationf("request must not be empty")
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString(request)
	if u.Profile.DietType != "" {
		fmt.Fprintf(&prompt, "\nDiet: %s.", u.Profile.DietType)
	}
	if u.Profile.Goal != "" {
		fmt.Fprintf(&prompt, "\nGoal: %s.", u.Profile.Goal)
	}

	text, err := s.generator.Generate(ctx, recipeSystemPrompt, prompt.String())
	if err != nil {
		return nil, err
	}

	var g generatedRecipe
	if err := json.Unmarshal([]byte(extractJSON(text)), &g); err != nil {
		return nil, fmt.Errorf("%w: unexpected recipe format: %w", common.ErrGenerationFailed, err)
	}
	content := models.RecipeContent{
		Name: g.Name, Ingredients: g.Ingredients, Instructions: g.Instructions,
		Calories: g.Calories, Protein: g.Protein, Carbs: g.Carbs, Fat: g.Fat, Tags: g.Tags,
	}
	if err := validateContent(&content); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrGenerationFailed, err)
	}
	return s.SaveGeneratedRecipe(ctx, userID, content)
}

// extractJSON trims anything around the outermost JSON object, such as a
// markdown code fence.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func (s *RecipeService) ListGeneratedRecipes(ctx context.Context, userID string) ([]*models.Recipe, error) {
	list, err := s.repomanager.Recipes(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}
	return list, nil
}

// SetFavorite marks the recipe as a favourite on date, or clears the mark
// when date is empty.
func (s *RecipeService) SetFavorite(ctx context.Context, userID, id, date string) error {
	if date != "" {
		if err := validateDate(date); err != nil {
			return err
		}
	}
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.Recipes(s.db).SetFavorite(ctx, userID, id, date); err != nil {
		return fmt.Errorf("error updating recipe: %w", err)
	}
	return nil
}

func (s *RecipeService) CreateCustomRecipe(ctx context.Context, userID string, content models.RecipeContent) (*models.CustomRecipe, error) {
	if err := validateContent(&content); err != nil {
		return nil, err
	}
	r, err := s.repomanager.CustomRecipes(s.db).Create(ctx, &models.CustomRecipe{
		UserID:        userID,
		RecipeContent: content,
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating custom recipe: %w", err)
	}
	return r, nil
}

func (s *RecipeService) ListCustomRecipes(ctx context.Context, userID string, activeOnly bool) ([]*models.CustomRecipe, error) {
	list, err := s.repomanager.CustomRecipes(s.db).List(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing custom recipes: %w", err)
	}
	return list, nil
}

// DeactivateCustomRecipe hides the recipe from active listings. It stays
// readable for meals that already reference it.
func (s *RecipeService) DeactivateCustomRecipe(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.CustomRecipes(s.db).Deactivate(ctx, userID, id); err != nil {
		return fmt.Errorf("error deactivating custom recipe: %w", err)
	}
	return nil
}

// CustomRecipeImageUploadURL returns a presigned PUT URL for the recipe's
// image and records the object key on the recipe.
func (s *RecipeService) CustomRecipeImageUploadURL(ctx context.Context, userID, id string) (string, string, error) {
	if err := checkID(id); err != nil {
		return "", "", err
	}
	repo := s.repomanager.CustomRecipes(s.db)
	r, err := repo.Get(ctx, userID, id)
	if err != nil {
		return "", "", fmt.Errorf("error getting custom recipe: %w", err)
	}
	if !r.IsActive {
		return "", "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := imageStorageKey(userID, id)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}

	if err := repo.SetImageKey(ctx, userID, id, key); err != nil {
		return "", "", fmt.Errorf("error updating custom recipe: %w", err)
	}
	return key, req.URL, nil
}

// CustomRecipeImageURL returns a presigned GET URL for the recipe's image.
func (s *RecipeService) CustomRecipeImageURL(ctx context.Context, userID, id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	r, err := s.repomanager.CustomRecipes(s.db).Get(ctx, userID, id)
	if err != nil {
		return "", fmt.Errorf("error getting custom recipe: %w", err)
	}
	if r.ImageKey == "" {
		return "", fmt.Errorf("recipe image: %w", common.ErrorNotFound)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &r.ImageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func imageStorageKey(userID, recipeID string) string {
	return fmt.Sprintf("recipes/%s/%s/%s", userID, recipeID, uuid.NewString())
}

func (s *RecipeService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}
