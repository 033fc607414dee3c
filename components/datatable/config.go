package datatable

// DefaultPageSize is the page size tables mount with.
const DefaultPageSize = 10

// DefaultPageSizeOptions are the page sizes offered by the pager.
var DefaultPageSizeOptions = []int{10, 20, 30, 40, 50}

// Config carries the table behavior knobs passed down from the application
// boundary. The zero value is usable.
type Config struct {
	DefaultPageSize    int   `json:"default_page_size" yaml:"default_page_size" mapstructure:"default_page_size"`
	PageSizeOptions    []int `json:"page_size_options" yaml:"page_size_options" mapstructure:"page_size_options"`
	AutoResetPageIndex bool  `json:"auto_reset_page_index" yaml:"auto_reset_page_index" mapstructure:"auto_reset_page_index"`
}

// Normalized fills unset fields with defaults.
func (c Config) Normalized() Config {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if len(c.PageSizeOptions) == 0 {
		c.PageSizeOptions = append([]int{}, DefaultPageSizeOptions...)
	}
	return c
}

// TableOption customizes a Table at construction.
type TableOption func(*tableOptions)

type tableOptions struct {
	config        Config
	hiddenColumns []string
	pageSize      int
	validator     RecordValidator
	schema        TableDefinition
}

// WithConfig applies cfg to the table.
func WithConfig(cfg Config) TableOption {
	return func(o *tableOptions) {
		o.config = cfg
	}
}

// WithPageSize overrides the initial page size.
func WithPageSize(size int) TableOption {
	return func(o *tableOptions) {
		o.pageSize = size
	}
}

// WithHiddenColumns hides the listed columns on mount.
func WithHiddenColumns(keys ...string) TableOption {
	return func(o *tableOptions) {
		o.hiddenColumns = append(o.hiddenColumns, keys...)
	}
}

// WithRecordValidator validates records added or replaced through the
// JSON entry points against def's schema.
func WithRecordValidator(validator RecordValidator, def TableDefinition) TableOption {
	return func(o *tableOptions) {
		o.validator = validator
		o.schema = def
	}
}
