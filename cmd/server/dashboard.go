package main

import (
	"net/http"
)

func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>nfw state</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #1e1e2e;
            color: #cdd6f4;
            padding: 20px;
        }
        .container { max-width: 1000px; margin: 0 auto; }
        h1 { color: #b4befe; margin-bottom: 6px; }
        .meta { color: #7f849c; margin-bottom: 24px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 10px; border-bottom: 1px solid #45475a; vertical-align: top; }
        th { color: #a6adc8; font-weight: 600; }
        td.topic { color: #f5c2e7; white-space: nowrap; }
        pre { font-family: ui-monospace, Menlo, monospace; font-size: 0.9em; white-space: pre-wrap; }
        .empty { color: #7f849c; text-align: center; }
        .error { color: #f38ba8; }
    </style>
</head>
<body>
    <div class="container">
        <h1>nfw state</h1>
        <div class="meta" id="meta">loading...</div>
        <table>
            <thead><tr><th>Topic</th><th>State</th></tr></thead>
            <tbody id="topics"></tbody>
        </table>
    </div>

    <script>
        function escapeHTML(s) {
            return s.replace(/[&<>]/g, c => ({'&': '&amp;', '<': '&lt;', '>': '&gt;'}[c]));
        }

        async function refresh() {
            const meta = document.getElementById('meta');
            const tbody = document.getElementById('topics');
            try {
                const response = await fetch('/state');
                const data = await response.json();
                if (!response.ok) {
                    meta.innerHTML = '<span class="error">' + escapeHTML(data.message) + '</span>';
                    return;
                }

                meta.textContent = 'namespace ' + data.namespace + ' · ' + data.topics.length +
                    ' topics · refreshed ' + new Date().toLocaleTimeString();

                if (data.topics.length === 0) {
                    tbody.innerHTML = '<tr><td colspan="2" class="empty">No state yet</td></tr>';
                    return;
                }

                tbody.innerHTML = data.topics.map(topic =>
                    '<tr><td class="topic">' + escapeHTML(topic) + '</td>' +
                    '<td><pre>' + escapeHTML(JSON.stringify(data.state[topic], null, 2)) + '</pre></td></tr>'
                ).join('');
            } catch (error) {
                meta.innerHTML = '<span class="error">cannot reach inspector</span>';
            }
        }

        refresh();
        setInterval(refresh, 1000);
    </script>
</body>
</html>`
