package port

type Cleaner interface {
	Clean(text string) string
}
