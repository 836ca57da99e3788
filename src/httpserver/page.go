package httpserver

import "html/template"

type indexData struct {
	Text string
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>scrollsnap remote</title>
    <style>
        * { box-sizing: border-box; }
        body {
            font-family: 'Consolas', 'Monaco', monospace;
            max-width: 900px;
            margin: 0 auto;
            padding: 20px;
            background-color: #2e2e2e;
            color: #b8bb26;
            line-height: 1.6;
        }
        h1 { color: #fabd2f; font-size: 1em; font-weight: normal; }
        h2 { color: #83a598; font-size: 1em; font-weight: normal; margin-bottom: 15px; }
        .section { margin: 20px 0; padding: 15px; }
        textarea {
            width: 100%;
            min-height: 200px;
            padding: 10px;
            font-size: 14px;
            border: none;
            background-color: #3c3836;
            color: #ebdbb2;
            font-family: inherit;
            resize: vertical;
        }
        button {
            background: #504945;
            color: #fabd2f;
            border: none;
            padding: 10px 20px;
            font-size: 14px;
            cursor: pointer;
            margin: 5px 5px 5px 0;
            font-family: inherit;
        }
        button:hover { background: #665c54; }
        .success { color: #b8bb26; font-weight: bold; }
        .error { color: #fb4934; font-weight: bold; }
        pre {
            background: #3c3836;
            padding: 15px;
            overflow-x: auto;
            color: #ebdbb2;
            white-space: pre-wrap;
            word-wrap: break-word;
        }
        input[type="file"] {
            background: #3c3836;
            color: #fabd2f;
            border: none;
            padding: 8px;
            margin: 10px 0;
            font-family: inherit;
        }
    </style>
</head>
<body>
    <h1>scrollsnap remote control</h1>

    <div class="section">
        <h2>&gt; trigger capture on pc</h2>
        <button onclick="triggerCapture()">[ capture left screen ]</button>
        <p id="captureStatus"></p>
    </div>

    <div class="section">
        <h2>&gt; captured text</h2>
        <pre id="captured">{{.Text}}</pre>
    </div>

    <div class="section">
        <h2>&gt; send text to pc</h2>
        <form id="sendForm">
            <textarea id="answer" name="text" placeholder="enter or edit text here...">{{.Text}}</textarea>
            <br>
            <button type="button" onclick="document.getElementById('answer').value='';">[ clear ]</button>
            <button type="submit">[ send &amp; type on pc ]</button>
            <button type="button" onclick="copyToPC()">[ send &amp; copy to pc ]</button>
        </form>
        <p id="status"></p>
    </div>

    <div class="section">
        <h2>&gt; upload image</h2>
        <input type="file" id="imageFile" accept="image/*" capture="environment">
        <button onclick="uploadImage()">[ upload &amp; extract ]</button>
        <p id="uploadStatus"></p>
    </div>

    <script>
        // Live updates: the server pushes the stored text after every capture.
        function connectWS() {
            const proto = location.protocol === 'https:' ? 'wss' : 'ws';
            const ws = new WebSocket(proto + '://' + location.host + '/ws');
            ws.onmessage = (ev) => {
                const msg = JSON.parse(ev.data);
                if (msg.type === 'text') {
                    document.getElementById('captured').textContent = msg.content;
                }
            };
            ws.onclose = () => setTimeout(connectWS, 2000);
        }
        connectWS();

        async function triggerCapture() {
            const status = document.getElementById('captureStatus');
            status.textContent = '> capturing on pc... (this may take a while)';
            status.className = '';
            const resp = await fetch('/trigger_capture', { method: 'POST' });
            if (resp.ok) {
                status.textContent = '> capture started.';
                status.className = 'success';
            } else {
                status.textContent = '> error: capture busy or failed to start.';
                status.className = 'error';
            }
        }

        async function sendText(mode) {
            const text = document.getElementById('answer').value;
            const resp = await fetch('/send_text', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ text: text, mode: mode })
            });
            const status = document.getElementById('status');
            if (resp.ok) {
                status.textContent = mode === 'type'
                    ? '> sent! text will be typed on pc.'
                    : '> sent! text copied to pc clipboard.';
                status.className = 'success';
            } else {
                status.textContent = '> error: failed to send.';
                status.className = 'error';
            }
        }

        document.getElementById('sendForm').onsubmit = async (e) => {
            e.preventDefault();
            await sendText('type');
        };

        async function copyToPC() { await sendText('copy'); }

        async function uploadImage() {
            const file = document.getElementById('imageFile').files[0];
            if (!file) { alert('please select an image first'); return; }
            const status = document.getElementById('uploadStatus');
            status.textContent = '> uploading and extracting...';
            const resp = await fetch('/send_image', {
                method: 'POST',
                body: await file.arrayBuffer()
            });
            if (resp.ok) {
                status.textContent = '> image processed.';
                status.className = 'success';
            } else {
                status.textContent = '> error: failed to process image.';
                status.className = 'error';
            }
        }
    </script>
</body>
</html>`
