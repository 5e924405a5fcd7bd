package app

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyCtrlC       = "ctrl+c"
	KeySpace       = " "
	KeyEnter       = "enter"
	KeyEsc         = "esc"
	KeyLeft        = "left"
	KeyRight       = "right"
	KeyAdd         = "a"
	KeyDelete      = "d"
	KeyJump        = "g"
	KeyStop        = "s"
	KeyPause       = "p"
	KeyResume      = "r"
	KeyTheme       = "t"
	KeyFactoryWipe = "R"
)
