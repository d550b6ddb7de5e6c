package domain

import "encoding/json"

// User is a record of the users service. Its fields are not interpreted here.
type User = json.RawMessage
