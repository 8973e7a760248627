package vault

// Identity is the local credential used to obtain a session token:
// the Chef client name and its PEM-encoded private key.
type Identity struct {
	ClientName    string
	PrivateKeyPEM string
}

// SecretPath addresses a secret as /v1/<MountPath>/<SecretName>.
// Both parts are opaque to the client.
type SecretPath struct {
	MountPath  string
	SecretName string
}

func (p SecretPath) String() string {
	return p.MountPath + "/" + p.SecretName
}

// SecretPayload is the data field of a secret read, returned verbatim.
type SecretPayload map[string]any

// session is fixed once authentication succeeds.
type session struct {
	token string
}

// loginRequest is the body of POST /v1/auth/chef/login/key.
type loginRequest struct {
	Key    string `json:"key"`
	Client string `json:"client"`
}

// loginResponse covers both the success and error shapes of the login endpoint.
type loginResponse struct {
	Auth *struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
	Errors []string `json:"errors"`
}

// secretResponse covers both the success and error shapes of a secret read.
type secretResponse struct {
	Data   SecretPayload `json:"data"`
	Errors []string      `json:"errors"`
}
