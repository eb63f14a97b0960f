package buildinfo

const Graffiti = "______  _____  _____ \n| ___ \\/  __ \\|_   _|\n| |_/ /| /  \\/  | |  \n|  __/ | |      | |  \n| |    | \\__/\\  | |  \n\\_|     \\____/  \\_/  \n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "PERCEPT"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
