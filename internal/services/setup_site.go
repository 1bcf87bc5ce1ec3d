package services

import (
	"context"
	"io"
	"log/slog"

	"seopress/internal/options"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// Site form field names
const (
	FieldSiteSep        = "site_sep"
	FieldSiteTitle      = "site_title"
	FieldKnowledgeType  = "knowledge_type"
	FieldKnowledgeName  = "knowledge_name"
	FieldKnowledgeImg   = "knowledge_img"
	FieldKnowledgeFB    = "knowledge_fb"
	FieldKnowledgeTW    = "knowledge_tw"
	FieldKnowledgePin   = "knowledge_pin"
	FieldKnowledgeInsta = "knowledge_insta"
	FieldKnowledgeYT    = "knowledge_yt"
	FieldKnowledgeLI    = "knowledge_li"
)

// Knowledge graph types
const (
	KnowledgeNone         = "none"
	KnowledgePerson       = "Person"
	KnowledgeOrganization = "Organization"
)

// SiteForm is the decoded site step submission
type SiteForm struct {
	Separator     string `form:"site_sep"`
	HomeTitle     string `form:"site_title"`
	KnowledgeType string `form:"knowledge_type" validate:"omitempty,oneof=none Person Organization"`
	KnowledgeName string `form:"knowledge_name"`
	KnowledgeImg  string `form:"knowledge_img"`
	Facebook      string `form:"knowledge_fb"`
	Twitter       string `form:"knowledge_tw"`
	Pinterest     string `form:"knowledge_pin"`
	Instagram     string `form:"knowledge_insta"`
	YouTube       string `form:"knowledge_yt"`
	LinkedIn      string `form:"knowledge_li"`
}

type choice struct {
	Value string
	Label string
}

type textField struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
}

var knowledgeTypes = []choice{
	{Value: KnowledgeNone, Label: "None (will disable this feature)"},
	{Value: KnowledgePerson, Label: "Person"},
	{Value: KnowledgeOrganization, Label: "Organization"},
}

// socialFields maps the free-text social inputs to their social option keys
var socialFields = []struct {
	field       string
	key         string
	label       string
	placeholder string
}{
	{FieldKnowledgeName, "seopress_social_knowledge_name", "Your name/organization", "eg: My Company Name"},
	{FieldKnowledgeImg, "seopress_social_knowledge_img", "Your photo/organization logo", "eg: https://www.example.com/logo.png"},
	{FieldKnowledgeFB, "seopress_social_accounts_facebook", "Facebook page URL", "eg: https://facebook.com/my-page-url"},
	{FieldKnowledgeTW, "seopress_social_accounts_twitter", "Twitter Username", "eg: @my_twitter_account"},
	{FieldKnowledgePin, "seopress_social_accounts_pinterest", "Pinterest URL", "eg: https://pinterest.com/my-page-url/"},
	{FieldKnowledgeInsta, "seopress_social_accounts_instagram", "Instagram URL", "eg: https://www.instagram.com/my-page-url/"},
	{FieldKnowledgeYT, "seopress_social_accounts_youtube", "YouTube URL", "eg: https://www.youtube.com/my-channel-url"},
	{FieldKnowledgeLI, "seopress_social_accounts_linkedin", "LinkedIn URL", "eg: http://linkedin.com/company/my-company-url/"},
}

// Site option keys
const (
	KeyTitlesSep       = "seopress_titles_sep"
	KeyTitlesHomeTitle = "seopress_titles_home_site_title"
	KeyKnowledgeType   = "seopress_social_knowledge_type"
)

// SiteView renders the identity and social form. After a failed save the
// submitted values are shown instead of the stored ones.
func (s *SetupService) SiteView(ctx context.Context, w io.Writer, page *wizard.Page) error {
	values := make(map[string]string, len(socialFields)+3)

	if len(page.Errors) > 0 && page.Form != nil {
		values[FieldSiteSep] = page.Form.Get(FieldSiteSep)
		values[FieldSiteTitle] = page.Form.Get(FieldSiteTitle)
		values[FieldKnowledgeType] = page.Form.Get(FieldKnowledgeType)
		for _, f := range socialFields {
			values[f.field] = page.Form.Get(f.field)
		}
	} else {
		titles, err := s.store.Get(ctx, options.TitlesOption)
		if err != nil {
			return err
		}
		social, err := s.store.Get(ctx, options.SocialOption)
		if err != nil {
			return err
		}
		values[FieldSiteSep] = titles.String(KeyTitlesSep)
		values[FieldSiteTitle] = titles.String(KeyTitlesHomeTitle)
		values[FieldKnowledgeType] = social.String(KeyKnowledgeType)
		for _, f := range socialFields {
			values[f.field] = social.String(f.key)
		}
	}

	fields := make([]textField, 0, len(socialFields))
	for _, f := range socialFields {
		fields = append(fields, textField{
			Name:        f.field,
			Label:       f.label,
			Placeholder: f.placeholder,
			Value:       values[f.field],
		})
	}

	return s.render(w, wizard.StepSite, page, views.Data{
		"values":          values,
		"errors":          page.Errors,
		"knowledge_types": knowledgeTypes,
		"fields":          fields,
	})
}

// SaveSite stores the separator and home title in the titles record and the
// knowledge graph and social accounts in the social record. Missing fields are
// stored as empty strings.
func (s *SetupService) SaveSite(ctx context.Context, page *wizard.Page) (err error) {
	ctx, span := s.startSpan(ctx, "setup.save_site", wizard.StepSite)
	defer func() { endSpan(span, err) }()

	form := s.decodeSiteForm(page)
	if err := s.validator.Struct(form); err != nil {
		return err
	}

	if err := s.updateRecord(ctx, options.TitlesOption, func(r options.Record) {
		r.Set(KeyTitlesSep, form.Separator)
		r.Set(KeyTitlesHomeTitle, form.HomeTitle)
	}); err != nil {
		return err
	}

	social := map[string]string{
		"seopress_social_knowledge_type":     form.KnowledgeType,
		"seopress_social_knowledge_name":     form.KnowledgeName,
		"seopress_social_knowledge_img":      form.KnowledgeImg,
		"seopress_social_accounts_facebook":  form.Facebook,
		"seopress_social_accounts_twitter":   form.Twitter,
		"seopress_social_accounts_pinterest": form.Pinterest,
		"seopress_social_accounts_instagram": form.Instagram,
		"seopress_social_accounts_youtube":   form.YouTube,
		"seopress_social_accounts_linkedin":  form.LinkedIn,
	}
	if err := s.updateRecord(ctx, options.SocialOption, func(r options.Record) {
		for k, v := range social {
			r.Set(k, v)
		}
	}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "site settings saved",
		slog.String("user", page.User),
		slog.String("knowledge_type", form.KnowledgeType))
	return nil
}

func (s *SetupService) decodeSiteForm(page *wizard.Page) SiteForm {
	get := func(name string) string {
		return s.sanitizer.TextField(page.Form.Get(name))
	}
	return SiteForm{
		Separator:     get(FieldSiteSep),
		HomeTitle:     get(FieldSiteTitle),
		KnowledgeType: get(FieldKnowledgeType),
		KnowledgeName: get(FieldKnowledgeName),
		KnowledgeImg:  get(FieldKnowledgeImg),
		Facebook:      get(FieldKnowledgeFB),
		Twitter:       get(FieldKnowledgeTW),
		Pinterest:     get(FieldKnowledgePin),
		Instagram:     get(FieldKnowledgeInsta),
		YouTube:       get(FieldKnowledgeYT),
		LinkedIn:      get(FieldKnowledgeLI),
	}
}
