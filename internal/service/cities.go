package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nurpe/contract-planner/internal/model"
)

type CityInput struct {
	Name     string
	Regional string
	Center   string
}

func (in CityInput) validate() (model.City, error) {
	name := strings.TrimSpace(in.Name)
	center := strings.TrimSpace(in.Center)
	regional, ok := model.ParseRegional(strings.TrimSpace(in.Regional))
	if name == "" || center == "" || !ok {
		return model.City{}, fmt.Errorf("%w: name, regional (Metropolitana or Interior) and center are required", ErrInvalidInput)
	}
	return model.City{Name: name, Regional: regional, Center: center}, nil
}

// AddCity appends a new city. Names are unique regardless of case.
func (s *ContractService) AddCity(ctx context.Context, input CityInput) (model.City, error) {
	city, err := input.validate()
	if err != nil {
		return model.City{}, err
	}
	err = s.mutate(ctx, "add_city", func(doc *model.Document) error {
		return addCity(doc, city)
	})
	if err != nil {
		return model.City{}, err
	}
	s.log.Info().Str("city", city.Name).Msg("city added")
	return city, nil
}

// EditCity replaces the city at index. A rename carries the city's
// quantities and configuration values over to the new name; renaming onto
// another existing city is rejected.
func (s *ContractService) EditCity(ctx context.Context, index int, input CityInput) (model.City, error) {
	city, err := input.validate()
	if err != nil {
		return model.City{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editCityLocked(ctx, index, city)
}

func (s *ContractService) editCityLocked(ctx context.Context, index int, city model.City) (model.City, error) {
	err := s.mutateLocked(ctx, "edit_city", func(doc *model.Document) error {
		if index < 0 || index >= len(doc.Cities) {
			return fmt.Errorf("%w: city index %d", ErrNotFound, index)
		}
		if existing := doc.CityIndex(city.Name); existing >= 0 && existing != index {
			return fmt.Errorf("%w: %q", ErrDuplicateCity, city.Name)
		}
		oldName := doc.Cities[index].Name
		doc.Cities[index] = city
		doc.RenameKeyed(oldName, city.Name)
		return nil
	})
	if err != nil {
		return model.City{}, err
	}
	if s.editing == index {
		s.editing = notEditing
	}
	s.log.Info().Int("index", index).Str("city", city.Name).Msg("city updated")
	return city, nil
}

// BeginEdit marks the city at index as the one the next SubmitCity updates.
func (s *ContractService) BeginEdit(index int) (model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Cities) {
		return model.City{}, fmt.Errorf("%w: city index %d", ErrNotFound, index)
	}
	s.editing = index
	return s.doc.Cities[index], nil
}

func (s *ContractService) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = notEditing
}

// EditingIndex is the city being edited, or -1.
func (s *ContractService) EditingIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// SubmitCity adds a city, or updates the one selected with BeginEdit.
func (s *ContractService) SubmitCity(ctx context.Context, input CityInput) (model.City, error) {
	city, err := input.validate()
	if err != nil {
		return model.City{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != notEditing {
		return s.editCityLocked(ctx, s.editing, city)
	}
	err = s.mutateLocked(ctx, "add_city", func(doc *model.Document) error {
		return addCity(doc, city)
	})
	if err != nil {
		return model.City{}, err
	}
	return city, nil
}

// DeleteCity removes the city at index with its quantities and
// configuration values. The caller must confirm.
func (s *ContractService) DeleteCity(ctx context.Context, index int, confirmed bool) (model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.doc.Cities) {
		return model.City{}, fmt.Errorf("%w: city index %d", ErrNotFound, index)
	}
	removed := s.doc.Cities[index]
	if !confirmed {
		return removed, fmt.Errorf("%w: delete city %q", ErrConfirmationRequired, removed.Name)
	}

	err := s.mutateLocked(ctx, "delete_city", func(doc *model.Document) error {
		doc.Cities = append(doc.Cities[:index], doc.Cities[index+1:]...)
		doc.PurgeKeyed(removed.Name)
		return nil
	})
	if err != nil {
		return model.City{}, err
	}
	s.editing = notEditing
	s.log.Info().Str("city", removed.Name).Msg("city removed")
	return removed, nil
}

// ImportCities reads "name,regional,center" lines. Malformed lines and names
// already present are skipped. It fails only when nothing was imported.
func (s *ContractService) ImportCities(ctx context.Context, text string) (int, error) {
	imported := 0
	err := s.mutate(ctx, "import_cities", func(doc *model.Document) error {
		for _, line := range strings.Split(text, "\n") {
			parts := strings.Split(line, ",")
			if len(parts) != 3 {
				continue
			}
			city, err := CityInput{Name: parts[0], Regional: parts[1], Center: parts[2]}.validate()
			if err != nil {
				continue
			}
			if addCity(doc, city) != nil {
				continue
			}
			imported++
		}
		if imported == 0 {
			return ErrNothingImported
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("count", imported).Msg("cities imported")
	return imported, nil
}

func addCity(doc *model.Document, city model.City) error {
	if doc.CityIndex(city.Name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateCity, city.Name)
	}
	doc.Cities = append(doc.Cities, city)
	return nil
}
