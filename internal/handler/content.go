package handler

import (
    "errors"
    "net/http"
    "slices"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/glamping-reservation/internal/booking"
    "github.com/iliyamo/glamping-reservation/internal/model"
    "github.com/iliyamo/glamping-reservation/internal/repository"
)

// ContentHandler serves the marketing content of the site: activities,
// gallery, reviews and hero banners.  The List* handlers are public and
// only return visible rows; the Admin* handlers manage everything.  Image
// URLs are stored as given; files are hosted elsewhere.
type ContentHandler struct {
    Activities repository.ActivityStore
    Gallery    repository.GalleryStore
    Reviews    repository.ReviewStore
    Banners    repository.BannerStore
}

func NewContentHandler(s repository.Stores) *ContentHandler {
    if s.Activities == nil || s.Gallery == nil || s.Reviews == nil || s.Banners == nil {
        panic("nil store passed to NewContentHandler")
    }
    return &ContentHandler{Activities: s.Activities, Gallery: s.Gallery, Reviews: s.Reviews, Banners: s.Banners}
}

// contentError turns a missing row into a 404 naming the resource.
func contentError(c echo.Context, err error, resource string, id uint64) error {
    if errors.Is(err, repository.ErrNotFound) {
        return writeError(c, &booking.NotFoundError{Resource: resource, Key: strconv.FormatUint(id, 10)})
    }
    return writeError(c, err)
}

func deleted(c echo.Context, what string) error {
    return c.JSON(http.StatusOK, echo.Map{"message": what + " deleted successfully"})
}

func idParam(c echo.Context) (uint64, error) {
    id, ok := parseID(c, "id")
    if !ok {
        return 0, &booking.ValidationError{Field: "id", Message: "must be a positive number"}
    }
    return id, nil
}

// trimList drops blank entries and surrounding whitespace.
func trimList(in []string) model.StringList {
    out := model.StringList{}
    for _, s := range in {
        if s = strings.TrimSpace(s); s != "" {
            out = append(out, s)
        }
    }
    return out
}

// ===== activities =====

type activityResp struct {
    ID               uint64   `json:"id"`
    Name             string   `json:"name"`
    Description      string   `json:"description"`
    ShortDescription string   `json:"short_description"`
    Price            int64    `json:"price"`
    Duration         string   `json:"duration"`
    Location         string   `json:"location"`
    Includes         []string `json:"includes"`
    Images           []string `json:"images"`
    IconType         string   `json:"icon_type"`
    IsActive         bool     `json:"is_active"`
}

func toActivityResp(a model.Activity) activityResp {
    return activityResp{
        ID: a.ID, Name: a.Name, Description: a.Description, ShortDescription: a.ShortDescription,
        Price: a.Price, Duration: a.Duration, Location: a.Location,
        Includes: nonNilList(a.Includes), Images: nonNilList(a.Images),
        IconType: a.IconType, IsActive: a.IsActive,
    }
}

func nonNilList(l model.StringList) []string {
    if l == nil {
        return []string{}
    }
    return l
}

type activityReq struct {
    Name             string   `json:"name" validate:"required,max=160"`
    Description      string   `json:"description" validate:"required"`
    ShortDescription string   `json:"short_description" validate:"max=255"`
    Price            int64    `json:"price" validate:"min=0"`
    Duration         string   `json:"duration" validate:"max=80"`
    Location         string   `json:"location" validate:"max=160"`
    Includes         []string `json:"includes" validate:"dive,max=255"`
    Images           []string `json:"images" validate:"dive,max=1024"`
    IconType         string   `json:"icon_type" validate:"omitempty,oneof=paddle dinner"`
    IsActive         *bool    `json:"is_active"`
}

type activityPatch struct {
    Name             *string   `json:"name" validate:"omitempty,min=1,max=160"`
    Description      *string   `json:"description" validate:"omitempty,min=1"`
    ShortDescription *string   `json:"short_description" validate:"omitempty,max=255"`
    Price            *int64    `json:"price" validate:"omitempty,min=0"`
    Duration         *string   `json:"duration" validate:"omitempty,max=80"`
    Location         *string   `json:"location" validate:"omitempty,max=160"`
    Includes         *[]string `json:"includes" validate:"omitempty,dive,max=255"`
    Images           *[]string `json:"images" validate:"omitempty,dive,max=1024"`
    IconType         *string   `json:"icon_type" validate:"omitempty,oneof=paddle dinner"`
    IsActive         *bool     `json:"is_active"`
}

func (p activityPatch) apply(a *model.Activity) {
    if p.Name != nil {
        a.Name = strings.TrimSpace(*p.Name)
    }
    if p.Description != nil {
        a.Description = *p.Description
    }
    if p.ShortDescription != nil {
        a.ShortDescription = *p.ShortDescription
    }
    if p.Price != nil {
        a.Price = *p.Price
    }
    if p.Duration != nil {
        a.Duration = *p.Duration
    }
    if p.Location != nil {
        a.Location = *p.Location
    }
    if p.Includes != nil {
        a.Includes = trimList(*p.Includes)
    }
    if p.Images != nil {
        a.Images = trimList(*p.Images)
    }
    if p.IconType != nil {
        a.IconType = *p.IconType
    }
    if p.IsActive != nil {
        a.IsActive = *p.IsActive
    }
}

// ListActivities handles GET /api/activities.
func (h *ContentHandler) ListActivities(c echo.Context) error {
    return h.listActivities(c, true)
}

// AdminListActivities handles GET /api/admin/activities.
func (h *ContentHandler) AdminListActivities(c echo.Context) error {
    return h.listActivities(c, false)
}

func (h *ContentHandler) listActivities(c echo.Context, activeOnly bool) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    list, err := h.Activities.ListActivities(ctx, activeOnly)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]activityResp, 0, len(list))
    for _, a := range list {
        out = append(out, toActivityResp(a))
    }
    return c.JSON(http.StatusOK, out)
}

// CreateActivity handles POST /api/admin/activities.
func (h *ContentHandler) CreateActivity(c echo.Context) error {
    var req activityReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    a := model.Activity{
        Name: strings.TrimSpace(req.Name), Description: req.Description, ShortDescription: req.ShortDescription,
        Price: req.Price, Duration: req.Duration, Location: req.Location,
        Includes: trimList(req.Includes), Images: trimList(req.Images),
        IconType: req.IconType, IsActive: req.IsActive == nil || *req.IsActive,
    }
    if a.IconType == "" {
        a.IconType = model.IconPaddle
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    id, err := h.Activities.CreateActivity(ctx, a)
    if err != nil {
        return writeError(c, err)
    }
    created, err := h.Activities.GetActivity(ctx, id)
    if err != nil {
        return contentError(c, err, "activity", id)
    }
    return c.JSON(http.StatusCreated, toActivityResp(created))
}

// UpdateActivity handles PATCH /api/admin/activities/:id.  Omitted fields
// keep their stored value.
func (h *ContentHandler) UpdateActivity(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    var req activityPatch
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    a, err := h.Activities.GetActivity(ctx, id)
    if err != nil {
        return contentError(c, err, "activity", id)
    }
    req.apply(&a)
    if err := h.Activities.UpdateActivity(ctx, a); err != nil {
        return contentError(c, err, "activity", id)
    }
    return c.JSON(http.StatusOK, toActivityResp(a))
}

// DeleteActivity handles DELETE /api/admin/activities/:id.
func (h *ContentHandler) DeleteActivity(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Activities.DeleteActivity(ctx, id); err != nil {
        return contentError(c, err, "activity", id)
    }
    return deleted(c, "Activity")
}

type imageReq struct {
    ImageURL string `json:"image_url" validate:"required,max=1024"`
}

// AddActivityImage handles POST /api/admin/activities/:id/images.  Adding
// a URL that is already listed is a no-op.
func (h *ContentHandler) AddActivityImage(c echo.Context) error {
    return h.editImages(c, func(l model.StringList, url string) model.StringList {
        if slices.Contains(l, url) {
            return l
        }
        return append(l, url)
    })
}

// RemoveActivityImage handles DELETE /api/admin/activities/:id/images.
func (h *ContentHandler) RemoveActivityImage(c echo.Context) error {
    return h.editImages(c, func(l model.StringList, url string) model.StringList {
        return slices.DeleteFunc(l, func(s string) bool { return s == url })
    })
}

func (h *ContentHandler) editImages(c echo.Context, edit func(model.StringList, string) model.StringList) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    var req imageReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    url := strings.TrimSpace(req.ImageURL)
    ctx, cancel := withTimeout(c)
    defer cancel()
    images, err := h.Activities.EditActivityImages(ctx, id, func(l model.StringList) model.StringList {
        return edit(l, url)
    })
    if err != nil {
        return contentError(c, err, "activity", id)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "images": nonNilList(images)})
}

// ===== gallery =====

type galleryResp struct {
    ID           uint64 `json:"id"`
    Title        string `json:"title"`
    Description  string `json:"description"`
    ImageURL     string `json:"image_url"`
    DisplayOrder int    `json:"display_order"`
    IsActive     bool   `json:"is_active"`
}

func toGalleryResp(g model.GalleryImage) galleryResp {
    return galleryResp{ID: g.ID, Title: g.Title, Description: g.Description, ImageURL: g.ImageURL,
        DisplayOrder: g.DisplayOrder, IsActive: g.IsActive}
}

type galleryReq struct {
    Title        string `json:"title" validate:"max=160"`
    Description  string `json:"description"`
    ImageURL     string `json:"image_url" validate:"required,max=1024"`
    DisplayOrder int    `json:"display_order"`
    IsActive     *bool  `json:"is_active"`
}

type galleryPatch struct {
    Title        *string `json:"title" validate:"omitempty,max=160"`
    Description  *string `json:"description"`
    ImageURL     *string `json:"image_url" validate:"omitempty,min=1,max=1024"`
    DisplayOrder *int    `json:"display_order"`
    IsActive     *bool   `json:"is_active"`
}

// ListGallery handles GET /api/gallery.
func (h *ContentHandler) ListGallery(c echo.Context) error { return h.listGallery(c, true) }

// AdminListGallery handles GET /api/admin/gallery.
func (h *ContentHandler) AdminListGallery(c echo.Context) error { return h.listGallery(c, false) }

func (h *ContentHandler) listGallery(c echo.Context, activeOnly bool) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    list, err := h.Gallery.ListGallery(ctx, activeOnly)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]galleryResp, 0, len(list))
    for _, g := range list {
        out = append(out, toGalleryResp(g))
    }
    return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) CreateGalleryImage(c echo.Context) error {
    var req galleryReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    g := model.GalleryImage{
        Title: strings.TrimSpace(req.Title), Description: req.Description, ImageURL: strings.TrimSpace(req.ImageURL),
        DisplayOrder: req.DisplayOrder, IsActive: req.IsActive == nil || *req.IsActive,
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    id, err := h.Gallery.CreateGalleryImage(ctx, g)
    if err != nil {
        return writeError(c, err)
    }
    g.ID = id
    return c.JSON(http.StatusCreated, toGalleryResp(g))
}

func (h *ContentHandler) UpdateGalleryImage(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    var req galleryPatch
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    g, err := h.Gallery.GetGalleryImage(ctx, id)
    if err != nil {
        return contentError(c, err, "gallery image", id)
    }
    if req.Title != nil {
        g.Title = strings.TrimSpace(*req.Title)
    }
    if req.Description != nil {
        g.Description = *req.Description
    }
    if req.ImageURL != nil {
        g.ImageURL = strings.TrimSpace(*req.ImageURL)
    }
    if req.DisplayOrder != nil {
        g.DisplayOrder = *req.DisplayOrder
    }
    if req.IsActive != nil {
        g.IsActive = *req.IsActive
    }
    if err := h.Gallery.UpdateGalleryImage(ctx, g); err != nil {
        return contentError(c, err, "gallery image", id)
    }
    return c.JSON(http.StatusOK, toGalleryResp(g))
}

func (h *ContentHandler) DeleteGalleryImage(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Gallery.DeleteGalleryImage(ctx, id); err != nil {
        return contentError(c, err, "gallery image", id)
    }
    return deleted(c, "Gallery image")
}

// ===== reviews =====

type reviewResp struct {
    ID           uint64 `json:"id"`
    GuestName    string `json:"guest_name"`
    Rating       int    `json:"rating"`
    Comment      string `json:"comment"`
    IsApproved   bool   `json:"is_approved"`
    DisplayOrder int    `json:"display_order"`
}

func toReviewResp(r model.Review) reviewResp {
    return reviewResp{ID: r.ID, GuestName: r.GuestName, Rating: r.Rating, Comment: r.Comment,
        IsApproved: r.IsApproved, DisplayOrder: r.DisplayOrder}
}

type reviewReq struct {
    GuestName    string `json:"guest_name" validate:"required,max=160"`
    Rating       int    `json:"rating" validate:"required,min=1,max=5"`
    Comment      string `json:"comment" validate:"required"`
    IsApproved   bool   `json:"is_approved"`
    DisplayOrder int    `json:"display_order"`
}

type reviewPatch struct {
    GuestName    *string `json:"guest_name" validate:"omitempty,min=1,max=160"`
    Rating       *int    `json:"rating" validate:"omitempty,min=1,max=5"`
    Comment      *string `json:"comment" validate:"omitempty,min=1"`
    IsApproved   *bool   `json:"is_approved"`
    DisplayOrder *int    `json:"display_order"`
}

// ListReviews handles GET /api/reviews; only approved reviews are shown.
func (h *ContentHandler) ListReviews(c echo.Context) error { return h.listReviews(c, true) }

func (h *ContentHandler) AdminListReviews(c echo.Context) error { return h.listReviews(c, false) }

func (h *ContentHandler) listReviews(c echo.Context, approvedOnly bool) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    list, err := h.Reviews.ListReviews(ctx, approvedOnly)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]reviewResp, 0, len(list))
    for _, r := range list {
        out = append(out, toReviewResp(r))
    }
    return c.JSON(http.StatusOK, out)
}

// CreateReview handles POST /api/admin/reviews.  New reviews stay hidden
// until approved unless is_approved is sent.
func (h *ContentHandler) CreateReview(c echo.Context) error {
    var req reviewReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    r := model.Review{
        GuestName: strings.TrimSpace(req.GuestName), Rating: req.Rating, Comment: req.Comment,
        IsApproved: req.IsApproved, DisplayOrder: req.DisplayOrder,
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    id, err := h.Reviews.CreateReview(ctx, r)
    if err != nil {
        return writeError(c, err)
    }
    r.ID = id
    return c.JSON(http.StatusCreated, toReviewResp(r))
}

func (h *ContentHandler) UpdateReview(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    var req reviewPatch
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    r, err := h.Reviews.GetReview(ctx, id)
    if err != nil {
        return contentError(c, err, "review", id)
    }
    if req.GuestName != nil {
        r.GuestName = strings.TrimSpace(*req.GuestName)
    }
    if req.Rating != nil {
        r.Rating = *req.Rating
    }
    if req.Comment != nil {
        r.Comment = *req.Comment
    }
    if req.IsApproved != nil {
        r.IsApproved = *req.IsApproved
    }
    if req.DisplayOrder != nil {
        r.DisplayOrder = *req.DisplayOrder
    }
    if err := h.Reviews.UpdateReview(ctx, r); err != nil {
        return contentError(c, err, "review", id)
    }
    return c.JSON(http.StatusOK, toReviewResp(r))
}

func (h *ContentHandler) DeleteReview(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Reviews.DeleteReview(ctx, id); err != nil {
        return contentError(c, err, "review", id)
    }
    return deleted(c, "Review")
}

// ===== hero banners =====

type bannerResp struct {
    ID           uint64 `json:"id"`
    Title        string `json:"title"`
    Description  string `json:"description"`
    ImageURL     string `json:"image_url"`
    ButtonText   string `json:"button_text"`
    ButtonURL    string `json:"button_url"`
    IsActive     bool   `json:"is_active"`
    DisplayOrder int    `json:"display_order"`
}

func toBannerResp(b model.HeroBanner) bannerResp {
    return bannerResp{ID: b.ID, Title: b.Title, Description: b.Description, ImageURL: b.ImageURL,
        ButtonText: b.ButtonText, ButtonURL: b.ButtonURL, IsActive: b.IsActive, DisplayOrder: b.DisplayOrder}
}

type bannerReq struct {
    Title        string `json:"title" validate:"required,max=160"`
    Description  string `json:"description"`
    ImageURL     string `json:"image_url" validate:"required,max=1024"`
    ButtonText   string `json:"button_text" validate:"max=80"`
    ButtonURL    string `json:"button_url" validate:"max=1024"`
    IsActive     *bool  `json:"is_active"`
    DisplayOrder int    `json:"display_order"`
}

type bannerPatch struct {
    Title        *string `json:"title" validate:"omitempty,min=1,max=160"`
    Description  *string `json:"description"`
    ImageURL     *string `json:"image_url" validate:"omitempty,min=1,max=1024"`
    ButtonText   *string `json:"button_text" validate:"omitempty,max=80"`
    ButtonURL    *string `json:"button_url" validate:"omitempty,max=1024"`
    IsActive     *bool   `json:"is_active"`
    DisplayOrder *int    `json:"display_order"`
}

// ListBanners handles GET /api/hero-banners.
func (h *ContentHandler) ListBanners(c echo.Context) error { return h.listBanners(c, true) }

func (h *ContentHandler) AdminListBanners(c echo.Context) error { return h.listBanners(c, false) }

func (h *ContentHandler) listBanners(c echo.Context, activeOnly bool) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    list, err := h.Banners.ListBanners(ctx, activeOnly)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]bannerResp, 0, len(list))
    for _, b := range list {
        out = append(out, toBannerResp(b))
    }
    return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) CreateBanner(c echo.Context) error {
    var req bannerReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    b := model.HeroBanner{
        Title: strings.TrimSpace(req.Title), Description: req.Description, ImageURL: strings.TrimSpace(req.ImageURL),
        ButtonText: req.ButtonText, ButtonURL: req.ButtonURL,
        IsActive: req.IsActive == nil || *req.IsActive, DisplayOrder: req.DisplayOrder,
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    id, err := h.Banners.CreateBanner(ctx, b)
    if err != nil {
        return writeError(c, err)
    }
    b.ID = id
    return c.JSON(http.StatusCreated, toBannerResp(b))
}

func (h *ContentHandler) UpdateBanner(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    var req bannerPatch
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    b, err := h.Banners.GetBanner(ctx, id)
    if err != nil {
        return contentError(c, err, "hero banner", id)
    }
    if req.Title != nil {
        b.Title = strings.TrimSpace(*req.Title)
    }
    if req.Description != nil {
        b.Description = *req.Description
    }
    if req.ImageURL != nil {
        b.ImageURL = strings.TrimSpace(*req.ImageURL)
    }
    if req.ButtonText != nil {
        b.ButtonText = *req.ButtonText
    }
    if req.ButtonURL != nil {
        b.ButtonURL = *req.ButtonURL
    }
    if req.IsActive != nil {
        b.IsActive = *req.IsActive
    }
    if req.DisplayOrder != nil {
        b.DisplayOrder = *req.DisplayOrder
    }
    if err := h.Banners.UpdateBanner(ctx, b); err != nil {
        return contentError(c, err, "hero banner", id)
    }
    return c.JSON(http.StatusOK, toBannerResp(b))
}

func (h *ContentHandler) DeleteBanner(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Banners.DeleteBanner(ctx, id); err != nil {
        return contentError(c, err, "hero banner", id)
    }
    return deleted(c, "Hero banner")
}
