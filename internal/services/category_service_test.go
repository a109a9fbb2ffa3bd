package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "easyenglish/internal/errors"
	"easyenglish/internal/models"
	"easyenglish/internal/pagination"
	"easyenglish/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory(ctx, "Grammar")
		testutil.AssertNoError(t, err)

		if cat.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if cat.Name != "Grammar" {
			t.Errorf("expected name Grammar, got %s", cat.Name)
		}
	})

	t.Run("trims_whitespace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory(ctx, "  Listening \t")
		testutil.AssertNoError(t, err)

		if cat.Name != "Listening" {
			t.Errorf("expected trimmed name, got %q", cat.Name)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, "   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("name_too_long", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, strings.Repeat("a", models.CategoryNameMaxLength+1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateCategory(ctx, strings.Repeat("é", models.CategoryNameMaxLength))
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, "Vocabulary")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(ctx, "vocabulary")
		testutil.AssertAppErrorIs(t, err, apperrors.ErrDuplicateCategory)
	})

	t.Run("name_reusable_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		first, err := svc.CreateCategory(ctx, "Speaking")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteCategory(ctx, first.ID))

		second, err := svc.CreateCategory(ctx, "Speaking")
		testutil.AssertNoError(t, err)
		if second.ID == first.ID {
			t.Error("expected a new ID for the recreated category")
		}
	})
}

func TestImportCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_all_in_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cats, err := svc.ImportCategories(ctx, []string{"Grammar", " Reading ", "Writing"})
		testutil.AssertNoError(t, err)

		if len(cats) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(cats))
		}
		if cats[1].Name != "Reading" {
			t.Errorf("expected trimmed Reading, got %q", cats[1].Name)
		}
		for _, c := range cats {
			if c.ID == 0 {
				t.Errorf("category %q has no ID", c.Name)
			}
		}
	})

	t.Run("empty_batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.ImportCategories(ctx, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_within_batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.ImportCategories(ctx, []string{"Grammar", "GRAMMAR"})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("control_character_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.ImportCategories(ctx, []string{"Grammar", "Bad\nName"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var count int64
		if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 0 {
			t.Errorf("expected nothing imported, got %d", count)
		}
	})

	t.Run("length_counted_after_trim", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cats, err := svc.ImportCategories(ctx, []string{"   " + strings.Repeat("a", 99)})
		testutil.AssertNoError(t, err)
		if len(cats[0].Name) != 99 {
			t.Errorf("expected trimmed 99-character name, got %d", len(cats[0].Name))
		}
	})

	t.Run("existing_name_rolls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		testutil.CreateTestCategoryWithName(t, db, "Writing")

		_, err := svc.ImportCategories(ctx, []string{"Grammar", "Reading", "Writing"})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")

		var count int64
		if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected import to be rolled back leaving 1 category, got %d", count)
		}
	})
}

func TestGetCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("paginated_in_id_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		var ids []uint
		for i := 0; i < 5; i++ {
			ids = append(ids, testutil.CreateTestCategory(t, db).ID)
		}

		result, err := svc.GetCategories(ctx, pagination.PageRequest{Page: 2, PageSize: 2}, CategoryFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", result.TotalPages)
		}
		if len(result.Data) != 2 {
			t.Fatalf("expected 2 items on page 2, got %d", len(result.Data))
		}
		if result.Data[0].ID != ids[2] || result.Data[1].ID != ids[3] {
			t.Errorf("unexpected page contents: %+v", result.Data)
		}
	})

	t.Run("defaults_applied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		result, err := svc.GetCategories(ctx, pagination.PageRequest{}, CategoryFilter{})
		testutil.AssertNoError(t, err)

		if result.Page != 1 || result.PageSize != 20 {
			t.Errorf("expected page 1 size 20, got page %d size %d", result.Page, result.PageSize)
		}
		if result.Data == nil || len(result.Data) != 0 {
			t.Errorf("expected empty non-nil data, got %v", result.Data)
		}
	})

	t.Run("search_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		testutil.CreateTestCategoryWithName(t, db, "Business English")
		testutil.CreateTestCategoryWithName(t, db, "Grammar")
		testutil.CreateTestCategoryWithName(t, db, "english for kids")
		testutil.CreateTestCategoryWithName(t, db, "100% Listening")

		result, err := svc.GetCategories(ctx, pagination.PageRequest{}, CategoryFilter{Search: "ENGLISH"})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 matches for ENGLISH, got %d", result.TotalItems)
		}

		result, err = svc.GetCategories(ctx, pagination.PageRequest{}, CategoryFilter{Search: "%"})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].Name != "100% Listening" {
			t.Errorf("expected %% to match literally, got %+v", result.Data)
		}
	})

	t.Run("excludes_deleted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		keep := testutil.CreateTestCategory(t, db)
		drop := testutil.CreateTestCategory(t, db)
		testutil.AssertNoError(t, svc.DeleteCategory(ctx, drop.ID))

		result, err := svc.GetCategories(ctx, pagination.PageRequest{}, CategoryFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].ID != keep.ID {
			t.Errorf("expected only category %d, got %+v", keep.ID, result.Data)
		}
	})
}

func TestGetAllCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	testutil.CreateTestCategoryWithName(t, db, "Writing")
	testutil.CreateTestCategoryWithName(t, db, "Grammar")
	testutil.CreateTestCategoryWithName(t, db, "Reading")

	cats, err := svc.GetAllCategories(context.Background())
	testutil.AssertNoError(t, err)

	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "Grammar,Reading,Writing" {
		t.Errorf("expected name order, got %v", names)
	}
}

func TestGetCategoryByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategoryWithName(t, db, "Pronunciation")

		cat, err := svc.GetCategoryByID(ctx, created.ID)
		testutil.AssertNoError(t, err)
		if cat.Name != "Pronunciation" {
			t.Errorf("expected Pronunciation, got %s", cat.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.GetCategoryByID(ctx, 99999)
		testutil.AssertAppErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategoryWithName(t, db, "Grammer")

		updated, err := svc.UpdateCategory(ctx, created.ID, "Grammar")
		testutil.AssertNoError(t, err)
		if updated.Name != "Grammar" {
			t.Errorf("expected Grammar, got %s", updated.Name)
		}

		reloaded, err := svc.GetCategoryByID(ctx, created.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Name != "Grammar" {
			t.Errorf("rename not persisted, got %s", reloaded.Name)
		}
	})

	t.Run("same_name_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategoryWithName(t, db, "Reading")

		_, err := svc.UpdateCategory(ctx, created.ID, "Reading")
		testutil.AssertNoError(t, err)
	})

	t.Run("case_change_of_own_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategoryWithName(t, db, "ielts")

		updated, err := svc.UpdateCategory(ctx, created.ID, "IELTS")
		testutil.AssertNoError(t, err)
		if updated.Name != "IELTS" {
			t.Errorf("expected IELTS, got %s", updated.Name)
		}
	})

	t.Run("duplicate_of_other", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		testutil.CreateTestCategoryWithName(t, db, "Grammar")
		other := testutil.CreateTestCategoryWithName(t, db, "Reading")

		_, err := svc.UpdateCategory(ctx, other.ID, "grammar")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db)

		_, err := svc.UpdateCategory(ctx, created.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.UpdateCategory(ctx, 99999, "Anything")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("soft_deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db)

		testutil.AssertNoError(t, svc.DeleteCategory(ctx, created.ID))

		_, err := svc.GetCategoryByID(ctx, created.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var count int64
		if err := db.Unscoped().Model(&models.Category{}).Where("id = ?", created.ID).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Error("expected the row to remain with deleted_at set")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		err := svc.DeleteCategory(ctx, 99999)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db)

		testutil.AssertNoError(t, svc.DeleteCategory(ctx, created.ID))
		testutil.AssertAppError(t, svc.DeleteCategory(ctx, created.ID), "CATEGORY_NOT_FOUND")
	})
}

func TestNormalizeName_ControlCharacters(t *testing.T) {
	for _, name := range []string{"Bad\nName", "Tab\tName", "Bell\aName"} {
		if _, err := normalizeName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}

	got, err := normalizeName(" Grammar\t")
	testutil.AssertNoError(t, err)
	if got != "Grammar" {
		t.Errorf("expected surrounding whitespace trimmed, got %q", got)
	}
}

// insertBeforeCreate registers a callback that inserts name inside the next
// create, after the service has checked that the name is free.
func insertBeforeCreate(t *testing.T, db *gorm.DB, name string) {
	t.Helper()

	var fired bool
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if fired {
			return
		}
		fired = true
		now := time.Now()
		if err := tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)", name, now, now,
		).Error; err != nil {
			t.Errorf("concurrent insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestConcurrentDuplicateName(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		insertBeforeCreate(t, db, "grammar")

		_, err := svc.CreateCategory(ctx, "Grammar")
		testutil.AssertAppErrorIs(t, err, apperrors.ErrDuplicateCategory)
	})

	t.Run("import", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		insertBeforeCreate(t, db, "GRAMMAR")

		_, err := svc.ImportCategories(ctx, []string{"Grammar", "Reading"})
		testutil.AssertAppErrorIs(t, err, apperrors.ErrDuplicateCategory)
	})

	t.Run("update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		target := testutil.CreateTestCategoryWithName(t, db, "Reading")

		// Take the name with a write the service's check cannot see.
		err := db.Callback().Update().Before("gorm:update").Register("test:concurrent_insert", func(tx *gorm.DB) {
			now := time.Now()
			_ = tx.Session(&gorm.Session{NewDB: true}).Exec(
				"INSERT INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)", "writing", now, now,
			).Error
		})
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}

		_, err = svc.UpdateCategory(ctx, target.ID, "Writing")
		testutil.AssertAppErrorIs(t, err, apperrors.ErrDuplicateCategory)
	})
}

func TestWriteError(t *testing.T) {
	testutil.AssertAppErrorIs(t, writeError(gorm.ErrDuplicatedKey), apperrors.ErrDuplicateCategory)
	testutil.AssertAppErrorIs(t, writeError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), apperrors.ErrDuplicateCategory)
	testutil.AssertAppErrorIs(t, writeError(gorm.ErrInvalidTransaction), apperrors.ErrInternalServer)
}
