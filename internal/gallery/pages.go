package gallery

// indexPage is the static landing page. Albums are reachable only through
// their links; there is no public listing.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Pellicle</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            max-width: 800px;
            margin: 100px auto;
            padding: 20px;
            text-align: center;
        }
        h1 { font-size: 3rem; font-weight: 300; margin-bottom: 1rem; }
        p { font-size: 1.2rem; color: #666; }
    </style>
</head>
<body>
    <h1>Pellicle</h1>
    <p>Access your private gallery using the link provided.</p>
</body>
</html>
`

// notFoundPage is served when an album's manifest is absent or unreadable.
const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Album Not Found</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            max-width: 800px;
            margin: 100px auto;
            padding: 20px;
            text-align: center;
        }
        h1 { font-size: 2rem; font-weight: 300; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>Album Not Found</h1>
    <p>The album you are looking for does not exist or is no longer available.</p>
</body>
</html>
`

// galleryTemplate renders an album as a thumbnail grid. Thumbnails link to
// the preview rendition via the image proxy route.
const galleryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Pellicle</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: #111;
            color: #eee;
        }
        header { padding: 40px 20px 20px; text-align: center; }
        h1 { font-weight: 300; font-size: 2rem; }
        .count { color: #888; margin-top: 0.5rem; }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(220px, 1fr));
            gap: 8px;
            padding: 20px;
            max-width: 1400px;
            margin: 0 auto;
        }
        .grid a { display: block; aspect-ratio: 1; overflow: hidden; }
        .grid img {
            width: 100%;
            height: 100%;
            object-fit: cover;
            transition: transform 0.2s ease;
        }
        .grid img:hover { transform: scale(1.03); }
    </style>
</head>
<body>
    <header>
        <h1>{{.Name}}</h1>
        <p class="count">{{len .Images}} photographs</p>
    </header>
    <div class="grid">
        {{- $albumID := .Id }}
        {{- range .Images}}
        <a href="/api/album/{{$albumID}}/image/{{.PreviewPath}}" target="_blank">
            <img src="/api/album/{{$albumID}}/image/{{.ThumbnailPath}}" alt="{{.OriginalFilename}}" loading="lazy">
        </a>
        {{- end}}
    </div>
</body>
</html>
`
