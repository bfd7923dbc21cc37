package recipes

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

const contentColumns = `name, ingredients, instructions, calories, protein, carbs, fat, tags`

// encodedContent holds the list fields of a recipe as JSON documents ready
// to be bound to JSONB parameters.
type encodedContent struct {
	ingredients, instructions, tags string
}

func encodeContent(c models.RecipeContent) (encodedContent, error) {
	var (
		out encodedContent
		err error
	)
	if out.ingredients, err = jsonList(c.Ingredients); err != nil {
		return out, fmt.Errorf("encode ingredients: %w", err)
	}
	if out.instructions, err = jsonList(c.Instructions); err != nil {
		return out, fmt.Errorf("encode instructions: %w", err)
	}
	if out.tags, err = jsonList(c.Tags); err != nil {
		return out, fmt.Errorf("encode tags: %w", err)
	}
	return out, nil
}

func jsonList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// rawContent receives the content columns during a scan.
type rawContent struct {
	ingredients, instructions, tags []byte
}

func (rc *rawContent) targets(c *models.RecipeContent) []any {
	return []any{&c.Name, &rc.ingredients, &rc.instructions, &c.Calories, &c.Protein, &c.Carbs, &c.Fat, &rc.tags}
}

func (rc *rawContent) decode(c *models.RecipeContent) error {
	for _, f := range []struct {
		raw []byte
		dst *[]string
	}{
		{rc.ingredients, &c.Ingredients},
		{rc.instructions, &c.Instructions},
		{rc.tags, &c.Tags},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return fmt.Errorf("decode recipe content: %w", err)
		}
	}
	return nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
