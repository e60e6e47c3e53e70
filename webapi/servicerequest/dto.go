package servicerequest

// PageQuery selects a window of results. Zero values mean "all" for the
// country report and the default page size elsewhere.
type PageQuery struct {
	Page int `query:"page" validate:"gte=0"`
	Size int `query:"size" validate:"gte=0,lte=1000"`
}

type ProvideQuery struct {
	Country  string `query:"country" validate:"required,len=2"`
	Region   string `query:"region" validate:"required"`
	City     string `query:"city" validate:"required"`
	Category string `query:"category" validate:"required"`
}
