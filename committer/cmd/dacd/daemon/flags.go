package daemon

const (
	homeFlag   = "home"
	forceFlag  = "force"
	fileFlag   = "file"
	idFlag     = "id"
	heightFlag = "height"
)
