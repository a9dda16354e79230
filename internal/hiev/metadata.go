package hiev

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gdevine/face-neutronprobe-hiev/internal/naming"
)

// ExperimentID is the HIEv experiment the EucFACE neutron probe data
// belongs to.
const ExperimentID = 31

const (
	rawDescription = "Raw Neutron Probe soil moisture data (in Text format) measured " +
		"approximately every three weeks, where each file represents the reading taken " +
		"on the date identified in the filename (or in the metadata). Measurements are " +
		"taken across all rings at the EucFACE experiment. Converted Level 1 CSV " +
		"versions of this data can also be found in HIEv (See associated data)"

	derivedDescription = "Level 1 Neutron Probe soil moisture data (in CSV format) from " +
		"the EucFACE site. This file has been generated from the associated R script " +
		"file (created by Teresa Gimeno) that converts the raw text format (see " +
		"associated raw .txt file) to a more readable CSV format."

	labelNames      = `"Neutron Probe","Soil Moisture"`
	relatedWebsites = `"https://www.westernsydney.edu.au/hie"`

	rawCreatorEmail     = "vinod.kumar@uws.edu.au"
	derivedCreatorEmail = "g.devine@uws.edu.au"

	converterContributor = "Teresa Gimeno, teresa.gimeno@bc3research.org"
)

// Metadata describes one HIEv data file record. StartTime and EndTime are
// preformatted "YYYY-MM-DD HH:MM:SS" strings carried verbatim from the
// filename decode; they are not re-validated as calendar dates here.
type Metadata struct {
	ExperimentID     int    `validate:"required"`
	Type             string `validate:"required,oneof=RAW PROCESSED"`
	Description      string `validate:"required"`
	CreatorEmail     string `validate:"required,email"`
	LabelNames       string
	RelatedWebsites  string
	StartTime        string `validate:"required"`
	EndTime          string `validate:"required"`
	ContributorNames []string
	ParentFilenames  []string
}

// FormField is one multipart form entry. Repeated keys (the []-suffixed
// array fields) appear as multiple entries.
type FormField struct {
	Key   string
	Value string
}

// Fields returns the metadata as ordered multipart form fields using the
// exact key names the HIEv API expects.
func (m Metadata) Fields() []FormField {
	fields := []FormField{
		{"experiment_id", strconv.Itoa(m.ExperimentID)},
		{"type", m.Type},
		{"description", m.Description},
		{"creator_email", m.CreatorEmail},
		{"label_names", m.LabelNames},
		{"related_websites", m.RelatedWebsites},
		{"start_time", m.StartTime},
		{"end_time", m.EndTime},
	}
	for _, name := range m.ContributorNames {
		fields = append(fields, FormField{"contributor_names[]", name})
	}
	for _, name := range m.ParentFilenames {
		fields = append(fields, FormField{"parent_filenames[]", name})
	}
	return fields
}

var validate = validator.New()

// Validate checks that every field the repository requires is present.
// The formatted error names each offending field.
func (m Metadata) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("metadata validation failed: %w", err)
	}

	var fields []string
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	return fmt.Errorf("metadata validation failed: %s", strings.Join(fields, ", "))
}

// RawMetadata builds the upload metadata for a staged raw text artifact
// covering the given time window.
func RawMetadata(window naming.DateRange) Metadata {
	return Metadata{
		ExperimentID:    ExperimentID,
		Type:            "RAW",
		Description:     rawDescription,
		CreatorEmail:    rawCreatorEmail,
		LabelNames:      labelNames,
		RelatedWebsites: relatedWebsites,
		StartTime:       window.Start,
		EndTime:         window.End,
	}
}

// DerivedMetadata builds the upload metadata for a level 1 CSV artifact.
// The parent filenames link the record back to its raw artifact and the
// conversion script package.
func DerivedMetadata(window naming.DateRange, canonicalName string) Metadata {
	return Metadata{
		ExperimentID:     ExperimentID,
		Type:             "PROCESSED",
		Description:      derivedDescription,
		CreatorEmail:     derivedCreatorEmail,
		LabelNames:       labelNames,
		RelatedWebsites:  relatedWebsites,
		StartTime:        window.Start,
		EndTime:          window.End,
		ContributorNames: []string{converterContributor},
		ParentFilenames:  []string{canonicalName, naming.ConverterIdentity},
	}
}
