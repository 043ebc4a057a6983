package confluence

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"kmconnect-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const defaultAvatarSuffix = "/default.png"

type rawActivity struct {
	avatarPath  string
	username    string
	displayName string
	pageHref    string
	pageTitle   string
	moment      string
}

// extractActivity applies the one fixed structural pattern to the feed
// fragment: first update block only, avatar image, author anchor, page
// anchor, trailing date run. Anything missing means no activity, which is
// the normal case for an idle space.
func extractActivity(fragment string) (rawActivity, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return rawActivity{}, false
	}

	item := doc.Find("div.update-item").First()
	if item.Length() == 0 {
		return rawActivity{}, false
	}

	author := item.Find("a[data-username]").First()
	page := item.Find("a[href]").Not("[data-username]").First()

	raw := rawActivity{
		avatarPath:  item.Find("img.logo").First().AttrOr("src", ""),
		username:    author.AttrOr("data-username", ""),
		displayName: htmlutil.TidyText(author),
		pageHref:    page.AttrOr("href", ""),
		pageTitle:   htmlutil.TidyText(page),
		// the relative date is kept verbatim, only trimmed; collapsing its
		// whitespace would rewrite what the remote rendered
		moment: strings.TrimSpace(item.Find(".update-item-date").First().Text()),
	}
	if raw.avatarPath == "" || raw.username == "" || raw.displayName == "" ||
		raw.pageHref == "" || raw.pageTitle == "" || raw.moment == "" {
		return rawActivity{}, false
	}
	return raw, true
}

// hostRoot strips the path component, keeping scheme and authority only.
// Feed hrefs and avatar paths are rooted there, not at the base URL.
func hostRoot(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Scheme + "://" + u.Host
}

func resolveAuthor(ctx context.Context, users UserResolver, login, displayName string) User {
	if users != nil {
		if user, ok := users.Resolve(ctx, login); ok {
			return user
		}
	}
	return User{ID: login, FirstName: displayName}
}

// scrapeActivity turns the feed fragment into a fully populated Activity,
// or nil when the pattern does not match. The avatar is an inline
// enrichment: a missing or generic one is never an error.
func scrapeActivity(ctx context.Context, session *Session, opts Options, fragment string) *Activity {
	raw, ok := extractActivity(fragment)
	if !ok {
		return nil
	}

	root := hostRoot(opts.baseURL())
	activity := &Activity{
		Moment:  raw.moment,
		Author:  resolveAuthor(ctx, opts.Users, raw.username, raw.displayName),
		Page:    raw.pageTitle,
		PageURL: root + raw.pageHref,
	}

	if !strings.HasSuffix(raw.avatarPath, defaultAvatarSuffix) {
		if png, ok := session.Fetch(ctx, root+raw.avatarPath); ok {
			activity.AuthorAvatar = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		}
	}
	return activity
}
