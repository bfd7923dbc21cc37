package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecipeFixture(t *testing.T, gen *fakeGenerator) (*testEnv, *RecipeService, string) {
	t.Helper()
	env := newTestEnv(t)
	env.cfg.S3BaseEndpoint = "http://127.0.0.1:9000"
	var svc *RecipeService
	if gen == nil {
		svc = NewRecipeService(env.db, env.rm, env.cfg, nil)
	} else {
		svc = NewRecipeService(env.db, env.rm, env.cfg, gen)
	}
	svc.clock = env.clock
	return env, svc, env.seedUser(t, "a@example.com")
}

// stubPresign replaces the AWS seams for the duration of the test.
func stubPresign(t *testing.T, put, get func(in any) (*v4.PresignedHTTPRequest, error)) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNewS3, origNewPre
		presignPutObject, presignGetObject = origPut, origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(_ *s3.PresignClient, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return put(in)
	}
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return get(in)
	}
}

func TestGetPresignClient_AppliesConfig(t *testing.T) {
	_, svc, _ := newRecipeFixture(t, nil)

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNewS3, origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}
	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		require.NotNil(t, c)
		return &s3.PresignClient{}
	}

	pc, err := svc.getPresignClient(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pc)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = svc.getPresignClient(context.Background())
	assert.EqualError(t, err, "load-fail")
}

func TestCustomRecipeImage_UploadThenDownload(t *testing.T) {
	_, svc, userID := newRecipeFixture(t, nil)
	ctx := context.Background()

	r, err := svc.CreateCustomRecipe(ctx, userID, models.RecipeContent{Name: "Pancakes", Calories: 350})
	require.NoError(t, err)

	var putKey string
	stubPresign(t,
		func(in any) (*v4.PresignedHTTPRequest, error) {
			put := in.(*s3.PutObjectInput)
			assert.Equal(t, "recipes", *put.Bucket)
			putKey = *put.Key
			return &v4.PresignedHTTPRequest{URL: "https://s3/put/" + putKey}, nil
		},
		func(in any) (*v4.PresignedHTTPRequest, error) {
			return &v4.PresignedHTTPRequest{URL: "https://s3/get/" + *in.(*s3.GetObjectInput).Key}, nil
		})

	_, err = svc.CustomRecipeImageURL(ctx, userID, r.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound, "no image yet")

	key, url, err := svc.CustomRecipeImageUploadURL(ctx, userID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, putKey, key)
	assert.True(t, strings.HasPrefix(key, "recipes/"+userID+"/"+r.ID+"/"))
	assert.Equal(t, "https://s3/put/"+key, url)

	url, err = svc.CustomRecipeImageURL(ctx, userID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/get/"+key, url)
}

func TestCustomRecipeImageUploadURL_Errors(t *testing.T) {
	_, svc, userID := newRecipeFixture(t, nil)
	ctx := context.Background()

	stubPresign(t,
		func(any) (*v4.PresignedHTTPRequest, error) { return nil, errors.New("presign-fail") },
		func(any) (*v4.PresignedHTTPRequest, error) { return nil, errors.New("presign-fail") })

	_, _, err := svc.CustomRecipeImageUploadURL(ctx, userID, "bad-id")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	r, err := svc.CreateCustomRecipe(ctx, userID, models.RecipeContent{Name: "Soup"})
	require.NoError(t, err)
	_, _, err = svc.CustomRecipeImageUploadURL(ctx, userID, r.ID)
	assert.EqualError(t, err, "presign-fail")

	// a failed presign leaves no key behind
	got, err := svc.repomanager.CustomRecipes(nil).Get(ctx, userID, r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ImageKey)

	require.NoError(t, svc.DeactivateCustomRecipe(ctx, userID, r.ID))
	_, _, err = svc.CustomRecipeImageUploadURL(ctx, userID, r.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCustomRecipes_Lifecycle(t *testing.T) {
	env, svc, userID := newRecipeFixture(t, nil)
	ctx := context.Background()

	_, err := svc.CreateCustomRecipe(ctx, userID, models.RecipeContent{Name: "  "})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = svc.CreateCustomRecipe(ctx, userID, models.RecipeContent{Name: "x", Fat: -1})
	assert.ErrorIs(t, err, common.ErrorValidation)

	a, err := svc.CreateCustomRecipe(ctx, userID, models.RecipeContent{Name: "A"})
	require.NoError(t, err)
	env.clock.Advance(1)
	b, err := svc.CreateCustomRecipe(ctx, userID, models.RecipeContent{Name: " B "})
	require.NoError(t, err)
	assert.Equal(t, "B", b.Name)

	require.NoError(t, svc.DeactivateCustomRecipe(ctx, userID, a.ID))

	active, err := svc.ListCustomRecipes(ctx, userID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	all, err := svc.ListCustomRecipes(ctx, userID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGeneratedRecipes_Favorite(t *testing.T) {
	_, svc, userID := newRecipeFixture(t, nil)
	ctx := context.Background()

	r, err := svc.SaveGeneratedRecipe(ctx, userID, models.RecipeContent{Name: "Chili", Calories: 600})
	require.NoError(t, err)

	require.NoError(t, svc.SetFavorite(ctx, userID, r.ID, "2025-03-14"))
	list, err := svc.ListGeneratedRecipes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-03-14", list[0].FavoriteDate)

	require.NoError(t, svc.SetFavorite(ctx, userID, r.ID, ""))
	list, err = svc.ListGeneratedRecipes(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list[0].FavoriteDate)

	assert.ErrorIs(t, svc.SetFavorite(ctx, userID, r.ID, "soon"), common.ErrorValidation)
	assert.ErrorIs(t, svc.SetFavorite(ctx, userID, "x", ""), common.ErrorNotFound)
}

func TestGenerateRecipe(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + `{"name":"Lentil curry","ingredients":["lentils","coconut milk"],
		"instructions":["simmer"],"calories":520,"protein":24,"carbs":60,"fat":18,"tags":["vegan"]}` + "\n```"}
	env, svc, userID := newRecipeFixture(t, gen)
	ctx := context.Background()
	require.NoError(t, env.rm.Users(nil).UpdateProfile(ctx, userID,
		models.Profile{DietType: "vegan", WaterGoalMl: 2000}, env.clock.Now()))

	r, err := svc.GenerateRecipe(ctx, userID, "a quick dinner")
	require.NoError(t, err)
	assert.Equal(t, "Lentil curry", r.Name)
	assert.Equal(t, 520.0, r.Calories)
	assert.Equal(t, []string{"vegan"}, r.Tags)
	assert.Contains(t, gen.prompt, "a quick dinner")
	assert.Contains(t, gen.prompt, "Diet: vegan.")

	list, err := svc.ListGeneratedRecipes(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateRecipe_Failures(t *testing.T) {
	ctx := context.Background()

	_, svc, userID := newRecipeFixture(t, nil)
	_, err := svc.GenerateRecipe(ctx, userID, "dinner")
	assert.ErrorIs(t, err, common.ErrFeatureDisabled)

	gen := &fakeGenerator{reply: "I cannot help with that"}
	_, svc, userID = newRecipeFixture(t, gen)
	_, err = svc.GenerateRecipe(ctx, userID, "dinner")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)

	_, err = svc.GenerateRecipe(ctx, userID, " ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	gen.reply = `{"name":"","calories":100}`
	_, err = svc.GenerateRecipe(ctx, userID, "dinner")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)

	gen.err = common.ErrGenerationFailed
	_, err = svc.GenerateRecipe(ctx, userID, "dinner")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)
}
