package location

// Country is a reference country keyed by its ISO 3166-1 alpha-2 code.
type Country struct {
	ISO2 string
	Name string
}
