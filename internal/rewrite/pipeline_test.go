package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlprep/internal/config"
	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

func newPipeline(t *testing.T, opts ...config.Option) *Pipeline {
	t.Helper()
	o, err := config.New(opts...)
	require.NoError(t, err)
	return NewPipeline(o)
}

func tag(name string, kv ...string) markup.Tag {
	t := markup.Tag{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		t.Attrs = append(t.Attrs, markup.Attr{Name: kv[i], Kind: markup.Present, Value: kv[i+1]})
	}
	return t
}

func TestAssetPath(t *testing.T) {
	tests := []struct {
		name string
		opts []config.Option
		in   string
		want string
	}{
		{"relative", []config.Option{config.WithAssetPathPrefix("//cdn/x")}, "images/logo.jpg", "//cdn/x/images/logo.jpg"},
		{"already prefixed", []config.Option{config.WithAssetPathPrefix("//cdn/x")}, "//cdn/x/images/logo.jpg", "//cdn/x/images/logo.jpg"},
		{"root relative", []config.Option{config.WithAssetPathPrefix("//cdn.com")}, "/css/a.css", "//cdn.com/css/a.css"},
		{"extra slash", []config.Option{config.WithAssetPathPrefix("//cdnhost.com")}, "//js/script.js", "//cdnhost.com/js/script.js"},
		{"protocol relative host", []config.Option{config.WithAssetPathPrefix("//cdnhost.com")}, "//fonts.google.com/a.css", "//fonts.google.com/a.css"},
		{"absolute", []config.Option{config.WithAssetPathPrefix("//cdnhost.com")}, "https://fonts.google.com/a.css", "https://fonts.google.com/a.css"},
		{"data uri", []config.Option{config.WithAssetPathPrefix("//cdn")}, "data:image/png;base64,AAA", "data:image/png;base64,AAA"},
		{"query kept", []config.Option{config.WithAssetPathPrefix("//cdn.com")}, "a.css?v=1#x", "//cdn.com/a.css?v=1#x"},
		{
			"path from root",
			[]config.Option{config.WithAssetPathPrefix("//cdnhost.com/site123/v1"), config.WithPathFromRoot("blog")},
			"images/summer.png",
			"//cdnhost.com/site123/v1/blog/images/summer.png",
		},
		{
			"parent segments normalized",
			[]config.Option{config.WithAssetPathPrefix("//cdnhost.com/site123/v1"), config.WithPathFromRoot("blog")},
			"../images/summer.png",
			"//cdnhost.com/site123/v1/images/summer.png",
		},
		{
			"placeholder replaced by prefix",
			[]config.Option{config.WithAssetPathPrefix("//cdnhost.com"), config.WithBaseURL("https://__baseurl__", "")},
			"https://__baseurl__/js/site.js",
			"//cdnhost.com/js/site.js",
		},
		{
			"placeholder without prefix",
			[]config.Option{config.WithBaseURL("https://__baseurl__", "https://mysite.com")},
			"https://__baseurl__/js/site.js",
			"https://mysite.com/js/site.js",
		},
		{
			"no prefix pattern",
			[]config.Option{config.WithAssetPathPrefix("//cdn.net/"), config.WithNoPathPrefixPatterns("/img/*.jpg")},
			"/img/bg.jpg",
			"/img/bg.jpg",
		},
		{
			"no prefix pattern miss",
			[]config.Option{config.WithAssetPathPrefix("//cdn.net/"), config.WithNoPathPrefixPatterns("/img/*.jpg")},
			"logo.jpg",
			"//cdn.net/logo.jpg",
		},
		{"no prefix configured", nil, "images/logo.jpg", "images/logo.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newPipeline(t, tt.opts...).AssetPath(tt.in))
		})
	}
}

func TestAssetPathIsIdempotent(t *testing.T) {
	p := newPipeline(t, config.WithAssetPathPrefix("//cdn/x"), config.WithPathFromRoot("/blog"))
	once := p.AssetPath("img/a.png")
	assert.Equal(t, "//cdn/x/blog/img/a.png", once)
	assert.Equal(t, once, p.AssetPath(once))
}

func TestCSS(t *testing.T) {
	p := newPipeline(t,
		config.WithAssetPathPrefix("//cdnhost.com"),
		config.WithBaseURL("https://__baseurl__", "https://mysite.com"),
	)

	assert.Equal(t,
		"background-image:url(//cdnhost.com/img/bg.jpg)",
		p.CSS("background-image:url(https://__baseurl__/img/bg.jpg)"))
	assert.Equal(t,
		`.a{background:url("//cdnhost.com/a.png") no-repeat}.b{color:red}`,
		p.CSS(`.a{background:url("a.png") no-repeat}.b{color:red}`))
	assert.Equal(t,
		`src: url('//cdnhost.com/f.woff'), url(data:font/woff;base64,AA)`,
		p.CSS(`src: url('f.woff'), url(data:font/woff;base64,AA)`))
	assert.Equal(t, "color: red", p.CSS("color: red"))
}

func TestApplyHyperlinks(t *testing.T) {
	p := newPipeline(t,
		config.WithAssetPathPrefix("//cdnhost.com"),
		config.WithBaseURL("https://__baseurl__", "https://domain.net"),
	)

	a := tag("a", "href", "//posts/about")
	p.Apply(&a)
	assert.Equal(t, "/posts/about", a.Attrs.Get("href"))

	ok := tag("a", "href", "//somesite.com")
	assert.Zero(t, p.Apply(&ok))

	rss := tag("link", "href", "https://__baseurl__/index.xml", "rel", "alternate")
	p.Apply(&rss)
	assert.Equal(t, "https://domain.net/index.xml", rss.Attrs.Get("href"))
}

func TestApplyTextBearingAttributes(t *testing.T) {
	p := newPipeline(t, config.WithBaseURL("https://__baseurl__", "https://domain.net"))

	meta := tag("meta", "property", "og:url", "content", "https://__baseurl__/path")
	p.Apply(&meta)
	assert.Equal(t, "https://domain.net/path", meta.Attrs.Get("content"))

	div := tag("div", "data-href", "https://__baseurl__//2016/07/26/blog", "title", "https://__baseurl__")
	assert.Equal(t, 1, p.Apply(&div))
	assert.Equal(t, "https://domain.net/2016/07/26/blog", div.Attrs.Get("data-href"))
	assert.Equal(t, "https://__baseurl__", div.Attrs.Get("title"))
}

func TestApplyResources(t *testing.T) {
	p := newPipeline(t, config.WithAssetPathPrefix("cdnhost.com"))

	keep := tag("img", "src", "/media/logo.png")
	keep.Attrs = append(keep.Attrs, markup.Attr{Name: "data-src-keep", Kind: markup.Boolean})
	p.Apply(&keep)
	assert.Equal(t, "/media/logo.png", keep.Attrs.Get("src"))
	assert.True(t, keep.Attrs.Has("data-src-keep"))

	css := tag("link", "rel", "Stylesheet", "href", "css/styles.css")
	p.Apply(&css)
	assert.Equal(t, "stylesheet", css.Attrs.Get("rel"))
	assert.Equal(t, "cdnhost.com/css/styles.css", css.Attrs.Get("href"))

	inline := tag("script")
	assert.Zero(t, p.Apply(&inline))
}

func TestApplyFingerprint(t *testing.T) {
	p := newPipeline(t, config.WithFingerprint("123", ""))

	img := tag("img", "src", "images/summer.png")
	img.Attrs = append(markup.Attributes{{Name: "data-fingerprint", Kind: markup.Boolean}}, img.Attrs...)
	p.Apply(&img)
	assert.Equal(t, `<img src="images/summer.png?__fp=123"/>`, img.Render(nil))

	withQuery := tag("script", "src", "a.js?v=2#x", "data-fingerprint", "")
	p.Apply(&withQuery)
	assert.Equal(t, "a.js?v=2&__fp=123#x", withQuery.Attrs.Get("src"))

	unconfigured := newPipeline(t)
	plain := tag("img", "src", "a.png", "data-fingerprint", "")
	unconfigured.Apply(&plain)
	assert.Equal(t, "a.png", plain.Attrs.Get("src"))
	assert.True(t, plain.Attrs.Has("data-fingerprint"))
}

func TestText(t *testing.T) {
	p := newPipeline(t,
		config.WithAssetPathPrefix("//cdn.com"),
		config.WithBaseURL("https://__baseurl__", "https://domain.net"),
	)

	assert.Equal(t, "body{background:url(//cdn.com/bg.png)}", p.Text("style", "body{background:url(bg.png)}"))
	assert.Equal(t, "see https://domain.net/about", p.Text("p", "see https://__baseurl__/about"))
	assert.Equal(t, "var u = 'https://domain.net/x'", p.Text("script", "var u = 'https://__baseurl__/x'"))
}
