package domain

import "fmt"

type SourceType string

const (
	SourceTypeAPI      SourceType = "api"
	SourceTypePostgres SourceType = "postgres"
)

type ConfigProfile struct {
	Name string
	Type SourceType
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Type, c.Name)
}
